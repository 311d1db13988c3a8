package assignment

import (
	"context"

	"splitHub/domain"
)

// ExperimentRepository reads experiments and their variants. Missing
// experiments are reported as domain.ErrExperimentNotFound.
type ExperimentRepository interface {
	GetExperiment(ctx context.Context, id string) (domain.Experiment, error)
	GetExperimentByKey(ctx context.Context, key string) (domain.Experiment, error)
	// GetActiveVariants returns active variants in creation order.
	GetActiveVariants(ctx context.Context, experimentID string) ([]domain.Variant, error)
	GetVariant(ctx context.Context, experimentID, variantID string) (domain.Variant, error)
}

type AssignmentRepository interface {
	// GetAssignment returns nil, nil when the visitor has no assignment yet.
	GetAssignment(ctx context.Context, experimentID, visitorID string) (*domain.VisitorAssignment, error)
	// CreateAssignment inserts a unless a row for (experiment, visitor)
	// already exists, and returns the stored row. created is false when a
	// concurrent request got there first; the returned row is then theirs.
	CreateAssignment(ctx context.Context, a domain.VisitorAssignment) (stored domain.VisitorAssignment, created bool, err error)
}

type StatsRepository interface {
	// GetVariantStats is keyed by variant id; variants without a row are absent.
	GetVariantStats(ctx context.Context, experimentID string) (map[string]domain.VariantStats, error)
	IncrementVisitorCount(ctx context.Context, experimentID, variantID string) error
	IncrementConversionCount(ctx context.Context, experimentID, variantID string, revenue float64) error
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.AssignmentEvent) error
}

// ConfigRepository stores per-experiment scorer overrides.
type ConfigRepository interface {
	GetConfig(ctx context.Context, experimentID string) (domain.BanditConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error
}
