// Package sequencerepo implements ports.SequenceGenerator on top of a keyed
// counter table.
package sequencerepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ManualOrderSequence names the counter behind MAN-### external ids.
const ManualOrderSequence = "manual_order"

// SequenceDTO is one named counter.
type SequenceDTO struct {
	Name  string `gorm:"type:varchar(64);primaryKey"`
	Value int64  `gorm:"not null"`
}

func (SequenceDTO) TableName() string {
	return "sequences"
}

// GormSequenceGenerator increments a counter row in a single
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING statement, so concurrent
// callers never observe the same value and the row is created on first use.
type GormSequenceGenerator struct {
	db   *gorm.DB
	name string
}

func NewGormSequenceGenerator(db *gorm.DB, name string) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db, name: name}
}

// Next returns the incremented value; the first call returns 1.
func (g *GormSequenceGenerator) Next(ctx context.Context) (int64, error) {
	row := SequenceDTO{Name: g.name, Value: 1}

	err := g.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "name"}},
				DoUpdates: clause.Assignments(map[string]any{
					"value": gorm.Expr("sequences.value + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "value"}}},
		).
		Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", g.name, err)
	}

	return row.Value, nil
}
