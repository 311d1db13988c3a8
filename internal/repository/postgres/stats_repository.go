package postgres

import (
	"context"
	"fmt"

	"splitHub/business/assignment"
	"splitHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

var _ assignment.StatsRepository = (*StatsRepository)(nil)

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) GetVariantStats(ctx context.Context, experimentID string) (map[string]domain.VariantStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.VariantStats
	if err := r.DB.WithContext(ctx).Where("experiment_id = ?", experimentID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query variant_stats: %w", err)
	}

	out := make(map[string]domain.VariantStats, len(rows))
	for _, row := range rows {
		out[row.VariantID] = row
	}
	return out, nil
}

// IncrementVisitorCount is a single atomic upsert so concurrent increments
// never lose updates.
func (r *StatsRepository) IncrementVisitorCount(ctx context.Context, experimentID, variantID string) error {
	row := domain.VariantStats{ExperimentID: experimentID, VariantID: variantID, Visitors: 1}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "experiment_id"}, {Name: "variant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"visitors":   gorm.Expr("variant_stats.visitors + 1"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to increment visitors: %w", err)
	}
	return nil
}

func (r *StatsRepository) IncrementConversionCount(ctx context.Context, experimentID, variantID string, revenue float64) error {
	row := domain.VariantStats{ExperimentID: experimentID, VariantID: variantID, Conversions: 1, Revenue: revenue}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "experiment_id"}, {Name: "variant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"conversions": gorm.Expr("variant_stats.conversions + 1"),
				"revenue":     gorm.Expr("variant_stats.revenue + ?", revenue),
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to increment conversions: %w", err)
	}
	return nil
}
