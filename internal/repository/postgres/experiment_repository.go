package postgres

import (
	"context"
	"errors"
	"fmt"

	"splitHub/business/assignment"
	"splitHub/domain"

	"gorm.io/gorm"
)

type ExperimentRepository struct {
	DB *gorm.DB
}

var _ assignment.ExperimentRepository = (*ExperimentRepository)(nil)

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{DB: db}
}

func (r *ExperimentRepository) GetExperiment(ctx context.Context, id string) (domain.Experiment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ExperimentRepository) GetExperimentByKey(ctx context.Context, key string) (domain.Experiment, error) {
	return r.first(ctx, "key = ?", key)
}

func (r *ExperimentRepository) first(ctx context.Context, query string, arg string) (domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Experiment{}, fmt.Errorf("context error: %w", err)
	}

	var exp domain.Experiment
	err := r.DB.WithContext(ctx).Where(query, arg).First(&exp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Experiment{}, domain.ErrExperimentNotFound
	}
	if err != nil {
		return domain.Experiment{}, fmt.Errorf("failed to query experiment: %w", err)
	}
	return exp, nil
}

func (r *ExperimentRepository) GetActiveVariants(ctx context.Context, experimentID string) ([]domain.Variant, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var variants []domain.Variant
	err := r.DB.WithContext(ctx).
		Where("experiment_id = ? AND active = ?", experimentID, true).
		Order("position ASC, created_at ASC, id ASC").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	return variants, nil
}

func (r *ExperimentRepository) GetVariant(ctx context.Context, experimentID, variantID string) (domain.Variant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Variant{}, fmt.Errorf("context error: %w", err)
	}

	var v domain.Variant
	err := r.DB.WithContext(ctx).
		Where("experiment_id = ? AND id = ?", experimentID, variantID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Variant{}, domain.ErrVariantNotFound
	}
	if err != nil {
		return domain.Variant{}, fmt.Errorf("failed to query variant: %w", err)
	}
	return v, nil
}
