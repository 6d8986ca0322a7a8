package http

import (
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MoneyRequest struct {
	Amount   *int64 `json:"amount" validate:"required,gte=0"`
	Currency string `json:"currency" validate:"required"`
}

type ItemRequest struct {
	ID       string        `json:"id" validate:"required"`
	Name     string        `json:"name" validate:"required"`
	Image    string        `json:"image"`
	Price    *MoneyRequest `json:"price" validate:"required"`
	Quantity int           `json:"quantity" validate:"gte=1"`
}

// CreateOrderRequest omits externalId to have a MAN-### id allocated.
type CreateOrderRequest struct {
	ExternalID   string        `json:"externalId" validate:"externalid"`
	CustomerName string        `json:"customerName" validate:"required"`
	Items        []ItemRequest `json:"items" validate:"dive"`
	Status       string        `json:"status" validate:"omitempty,orderstatus"`
}

// UpdateOrderRequest is a partial update; absent fields keep their value and
// an empty items list is ignored.
type UpdateOrderRequest struct {
	ExternalID   *string       `json:"externalId" validate:"omitempty,externalid"`
	CustomerName *string       `json:"customerName" validate:"omitempty,min=1"`
	Items        []ItemRequest `json:"items" validate:"omitempty,dive"`
	Status       *string       `json:"status" validate:"omitempty,orderstatus"`
}

type SimulationStatusResponse struct {
	IsRunning bool `json:"isRunning"`
}

type SimulationToggleResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func toItems(requests []ItemRequest) ([]order.Item, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	items := make([]order.Item, 0, len(requests))
	for _, r := range requests {
		price, err := kernel.NewMoney(*r.Price.Amount, r.Price.Currency)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(r.ID, r.Name, r.Image, price, r.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
