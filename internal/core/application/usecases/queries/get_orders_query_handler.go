package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOrdersQueryHandler reads order views from the orders table.
type GetOrdersQueryHandler struct {
	db           *gorm.DB
	defaultLimit int
}

// NewGetOrdersQueryHandler uses defaultLimit when a query does not set one;
// the service passes its order capacity so a default listing shows the whole board.
func NewGetOrdersQueryHandler(db *gorm.DB, defaultLimit int) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db, defaultLimit: defaultLimit}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	limit := query.Limit()
	if limit == 0 {
		limit = h.defaultLimit
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Order("created_at DESC").
		Limit(limit).
		Offset(query.Offset())
	if status := query.Status(); status != nil {
		tx = tx.Where("status = ?", status.String())
	}

	var rows []orderRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, nil
}
