package domain

import (
	"time"

	"gorm.io/datatypes"
)

type AssignmentOutcome string

const (
	AssignmentExisting AssignmentOutcome = "existing"
	AssignmentNew      AssignmentOutcome = "new"
)

// VisitorAssignment is the sticky (experiment, visitor) -> variant fact.
// It is written once and never updated.
type VisitorAssignment struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	ExperimentID string    `gorm:"column:experiment_id;not null;uniqueIndex:uq_assignment_visitor" json:"experiment_id"`
	VisitorID    string    `gorm:"column:visitor_id;not null;uniqueIndex:uq_assignment_visitor" json:"visitor_id"`
	VariantID    string    `gorm:"column:variant_id;not null" json:"variant_id"`
	Algorithm    Algorithm `gorm:"column:algorithm" json:"algorithm"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VisitorAssignment) TableName() string {
	return "visitor_assignments"
}

type VariantStats struct {
	ExperimentID string    `gorm:"column:experiment_id;primaryKey" json:"experiment_id"`
	VariantID    string    `gorm:"column:variant_id;primaryKey" json:"variant_id"`
	Visitors     int64     `gorm:"column:visitors;not null;default:0" json:"visitors"`
	Conversions  int64     `gorm:"column:conversions;not null;default:0" json:"conversions"`
	Revenue      float64   `gorm:"column:revenue;not null;default:0" json:"revenue"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VariantStats) TableName() string {
	return "variant_stats"
}

// ConversionRate is conversions/visitors, 0 when nothing has been seen.
func (s VariantStats) ConversionRate() float64 {
	if s.Visitors <= 0 {
		return 0
	}
	return float64(s.Conversions) / float64(s.Visitors)
}

const (
	EventAssignment = "assignment"
	EventConversion = "conversion"
)

type AssignmentEvent struct {
	ID           string            `gorm:"column:id;primaryKey" json:"id"`
	ExperimentID string            `gorm:"column:experiment_id;not null;index" json:"experiment_id"`
	VariantID    string            `gorm:"column:variant_id;not null" json:"variant_id"`
	VisitorID    string            `gorm:"column:visitor_id;not null" json:"visitor_id"`
	EventType    string            `gorm:"column:event_type;not null" json:"event_type"`
	Algorithm    Algorithm         `gorm:"column:algorithm" json:"algorithm,omitempty"`
	Revenue      float64           `gorm:"column:revenue;default:0" json:"revenue"`
	Context      datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AssignmentEvent) TableName() string {
	return "assignment_events"
}

// AssignmentResult is what the assignment endpoint returns.
type AssignmentResult struct {
	ExperimentID string            `json:"experiment_id"`
	VisitorID    string            `json:"visitor_id"`
	Variant      Variant           `json:"variant"`
	Behavior     BehaviorKind      `json:"behavior"`
	URL          string            `json:"url,omitempty"`
	Assignment   AssignmentOutcome `json:"assignment"`
	Algorithm    Algorithm         `json:"algorithm"`
	MABEligible  bool              `json:"mab_eligible"`
	Score        float64           `json:"score,omitempty"`

	// Persisted is false when the sticky write failed and the variant was
	// served without being recorded.
	Persisted bool `json:"persisted"`
}

type ConversionResult struct {
	ExperimentID string  `json:"experiment_id"`
	VisitorID    string  `json:"visitor_id"`
	VariantID    string  `json:"variant_id"`
	Revenue      float64 `json:"revenue"`
}
