package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ExperimentStatus string

const (
	ExperimentDraft     ExperimentStatus = "draft"
	ExperimentRunning   ExperimentStatus = "running"
	ExperimentPaused    ExperimentStatus = "paused"
	ExperimentCompleted ExperimentStatus = "completed"
)

type Algorithm string

const (
	AlgorithmUniform          Algorithm = "uniform"
	AlgorithmThompsonSampling Algorithm = "thompson_sampling"
	AlgorithmUCB1             Algorithm = "ucb1"
	AlgorithmEpsilonGreedy    Algorithm = "epsilon_greedy"
)

// Valid reports whether a is one of the supported allocation algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmUniform, AlgorithmThompsonSampling, AlgorithmUCB1, AlgorithmEpsilonGreedy:
		return true
	}
	return false
}

// IsBandit is true for every algorithm driven by live conversion stats.
func (a Algorithm) IsBandit() bool {
	return a.Valid() && a != AlgorithmUniform
}

type Experiment struct {
	ID        string           `gorm:"column:id;primaryKey" json:"id"`
	Key       string           `gorm:"column:key;uniqueIndex" json:"key"`
	Name      string           `gorm:"column:name;not null" json:"name"`
	Status    ExperimentStatus `gorm:"column:status;not null;default:draft" json:"status"`
	Algorithm Algorithm        `gorm:"column:algorithm;not null;default:uniform" json:"algorithm"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Variants []Variant `gorm:"foreignKey:ExperimentID" json:"variants,omitempty"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// IsRunning gates every new assignment.
func (e Experiment) IsRunning() bool {
	return e.Status == ExperimentRunning
}

type Variant struct {
	ID                string         `gorm:"column:id;primaryKey" json:"id"`
	ExperimentID      string         `gorm:"column:experiment_id;not null;index" json:"experiment_id"`
	Name              string         `gorm:"column:name;not null" json:"name"`
	IsControl         bool           `gorm:"column:is_control;default:false" json:"is_control"`
	TrafficPercentage float64        `gorm:"column:traffic_percentage;not null;default:0" json:"traffic_percentage"`
	RedirectURL       string         `gorm:"column:redirect_url" json:"redirect_url,omitempty"`
	Changes           datatypes.JSON `gorm:"column:changes;type:jsonb" json:"changes,omitempty"`
	// no gorm default here: gorm would write the default in place of false
	Active            bool           `gorm:"column:active;not null" json:"active"`
	Position          int            `gorm:"column:position;default:0" json:"position"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Variant) TableName() string {
	return "variants"
}
