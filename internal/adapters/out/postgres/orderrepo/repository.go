package orderrepo

import (
	"context"
	"errors"
	"time"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
	"kds/internal/pkg/errs"

	"gorm.io/gorm"
)

// fieldColumns maps each tracked aggregate field to the columns it owns.
// id and created_at never change after insert.
var fieldColumns = map[order.Field][]string{
	order.FieldExternalID:     {"external_id"},
	order.FieldCustomerName:   {"customer_name"},
	order.FieldStatus:         {"status"},
	order.FieldItems:          {"items", "total_amount", "total_currency"},
	order.FieldRiderArrivedAt: {"rider_arrived_at"},
}

// changedColumns always includes updated_at, so an update without changes still
// detects a missing row.
func changedColumns(aggregate *order.Order) []string {
	columns := []string{"updated_at"}
	for _, field := range aggregate.Changes() {
		columns = append(columns, fieldColumns[field]...)
	}
	return columns
}

// GormOrderRepository implements ports.OrderRepository using GORM.
// The *gorm.DB must be opened with TranslateError enabled so unique violations
// surface as gorm.ErrDuplicatedKey.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		now:     storeNow,
	}
}

// storeNow matches the microsecond precision of PostgreSQL timestamps so the
// returned aggregate equals what a later Get reads back.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Add saves a new order and stamps createdAt and updatedAt on it.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	now := r.now()
	dto := fromDomain(aggregate)
	dto.CreatedAt = now
	dto.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translateWriteError(err, dto.ExternalID)
	}

	aggregate.SetTimestamps(now, now)
	aggregate.ClearChanges()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the fields changed on the aggregate since it was loaded and
// refreshes updatedAt. Columns it did not change are left to concurrent writers.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	now := r.now()
	dto := fromDomain(aggregate)
	dto.UpdatedAt = now

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select(changedColumns(aggregate)).
		Updates(&dto)
	if result.Error != nil {
		return translateWriteError(result.Error, dto.ExternalID)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	aggregate.SetTimestamps(aggregate.CreatedAt(), now)
	aggregate.ClearChanges()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes an order by ID.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Google())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// Count returns the number of stored orders.
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func translateWriteError(err error, externalID string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewObjectAlreadyExistsError("externalId", externalID)
	}
	return err
}
