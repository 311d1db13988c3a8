package postgres

import (
	"context"
	"errors"
	"fmt"

	"splitHub/business/assignment"
	"splitHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanditConfigRepository struct {
	DB *gorm.DB
}

var _ assignment.ConfigRepository = (*BanditConfigRepository)(nil)

func NewBanditConfigRepository(db *gorm.DB) *BanditConfigRepository {
	return &BanditConfigRepository{DB: db}
}

func (r *BanditConfigRepository) GetConfig(ctx context.Context, experimentID string) (domain.BanditConfig, bool, error) {
	var cfg domain.BanditConfig

	err := r.DB.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BanditConfig{}, false, nil
	}
	if err != nil {
		return domain.BanditConfig{}, false, fmt.Errorf("failed to query bandit_configs: %w", err)
	}
	return cfg, true, nil
}

func (r *BanditConfigRepository) UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "experiment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"prior_alpha",
				"prior_beta",
				"ucb_confidence",
				"epsilon",
				"epsilon_decay",
				"min_bandit_visitors",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
