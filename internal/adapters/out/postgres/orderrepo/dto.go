// Package orderrepo persists order aggregates with GORM. The same schema runs on
// PostgreSQL and on SQLite.
package orderrepo

import (
	"time"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table. Items are stored as a JSON
// document; the total is kept in two columns so it can be read without decoding items.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID     string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerName   string    `gorm:"type:varchar(255);not null"`
	Status         string    `gorm:"type:varchar(16);index;not null"`
	Items          []ItemDTO `gorm:"type:text;serializer:json"`
	TotalAmount    int64     `gorm:"not null"`
	TotalCurrency  string    `gorm:"type:varchar(3);not null"`
	RiderArrivedAt *time.Time
	CreatedAt      time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one element of the items JSON column.
type ItemDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Image    string   `json:"image,omitempty"`
	Price    MoneyDTO `json:"price"`
	Quantity int      `json:"quantity"`
}

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:    item.ID(),
			Name:  item.Name(),
			Image: item.Image(),
			Price: MoneyDTO{
				Amount:   item.Price().Amount(),
				Currency: item.Price().Currency(),
			},
			Quantity: item.Quantity(),
		})
	}

	return OrderDTO{
		ID:             aggregate.ID().Google(),
		ExternalID:     aggregate.ExternalID().String(),
		CustomerName:   aggregate.CustomerName(),
		Status:         aggregate.Status().String(),
		Items:          items,
		TotalAmount:    aggregate.Total().Amount(),
		TotalCurrency:  aggregate.Total().Currency(),
		RiderArrivedAt: aggregate.RiderArrivedAt(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	externalID, err := order.NewExternalID(dto.ExternalID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		price, priceErr := kernel.NewMoney(itemDTO.Price.Amount, itemDTO.Price.Currency)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.NewItem(itemDTO.ID, itemDTO.Name, itemDTO.Image, price, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.TotalCurrency)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		externalID,
		dto.CustomerName,
		status,
		items,
		total,
		dto.RiderArrivedAt,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
