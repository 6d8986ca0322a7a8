// Package queries contains the read side of the order lifecycle service.
// Handlers read the orders table directly and return OrderView values shaped
// for API responses and notifications.
package queries

import (
	"time"

	"kds/internal/core/domain/model/order"
)

// OrderView is the public representation of an order.
type OrderView struct {
	ID             string     `json:"id"`
	ExternalID     string     `json:"externalId"`
	CustomerName   string     `json:"customerName"`
	Status         string     `json:"status"`
	Items          []ItemView `json:"items"`
	Total          MoneyView  `json:"total"`
	RiderArrivedAt *time.Time `json:"riderArrivedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type ItemView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Image    string    `json:"image,omitempty"`
	Price    MoneyView `json:"price"`
	Quantity int       `json:"quantity"`
}

// MoneyView carries an amount in minor units (cents).
type MoneyView struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewOrderView maps an aggregate, typically one just returned by a command handler.
func NewOrderView(o *order.Order) OrderView {
	items := make([]ItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemView{
			ID:    item.ID(),
			Name:  item.Name(),
			Image: item.Image(),
			Price: MoneyView{
				Amount:   item.Price().Amount(),
				Currency: item.Price().Currency(),
			},
			Quantity: item.Quantity(),
		})
	}

	return OrderView{
		ID:           o.ID().String(),
		ExternalID:   o.ExternalID().String(),
		CustomerName: o.CustomerName(),
		Status:       o.Status().String(),
		Items:        items,
		Total: MoneyView{
			Amount:   o.Total().Amount(),
			Currency: o.Total().Currency(),
		},
		RiderArrivedAt: o.RiderArrivedAt(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

// orderRow mirrors the columns of the orders table.
type orderRow struct {
	ID             string
	ExternalID     string
	CustomerName   string
	Status         string
	Items          []ItemView `gorm:"serializer:json"`
	TotalAmount    int64
	TotalCurrency  string
	RiderArrivedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r orderRow) view() OrderView {
	items := r.Items
	if items == nil {
		items = []ItemView{}
	}

	return OrderView{
		ID:             r.ID,
		ExternalID:     r.ExternalID,
		CustomerName:   r.CustomerName,
		Status:         r.Status,
		Items:          items,
		Total:          MoneyView{Amount: r.TotalAmount, Currency: r.TotalCurrency},
		RiderArrivedAt: r.RiderArrivedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
