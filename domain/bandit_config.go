package domain

import "time"

// BanditConfig holds per-experiment overrides for the scorers. A nil field
// (NULL column, omitted JSON key) falls back to the service default; a set
// field is used as stored, zero included.
type BanditConfig struct {
	ExperimentID string `json:"experiment_id" gorm:"column:experiment_id;primaryKey"`

	PriorAlpha      *float64 `json:"prior_alpha,omitempty" gorm:"column:prior_alpha" validate:"omitempty,gt=0"`
	PriorBeta       *float64 `json:"prior_beta,omitempty" gorm:"column:prior_beta" validate:"omitempty,gt=0"`
	UCBConfidence   *float64 `json:"ucb_confidence,omitempty" gorm:"column:ucb_confidence" validate:"omitempty,gt=0"`
	Epsilon         *float64 `json:"epsilon,omitempty" gorm:"column:epsilon" validate:"omitempty,gte=0,lte=1"`
	EpsilonDecay    *bool    `json:"epsilon_decay,omitempty" gorm:"column:epsilon_decay"`
	MinBanditVisits *int64   `json:"min_bandit_visitors,omitempty" gorm:"column:min_bandit_visitors" validate:"omitempty,gte=0"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (BanditConfig) TableName() string {
	return "bandit_configs"
}
