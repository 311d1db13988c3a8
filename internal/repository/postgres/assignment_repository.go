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

type AssignmentRepository struct {
	DB *gorm.DB
}

var _ assignment.AssignmentRepository = (*AssignmentRepository)(nil)

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, experimentID, visitorID string) (*domain.VisitorAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var a domain.VisitorAssignment
	err := r.DB.WithContext(ctx).
		Where("experiment_id = ? AND visitor_id = ?", experimentID, visitorID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor_assignments: %w", err)
	}
	return &a, nil
}

// CreateAssignment relies on the (experiment_id, visitor_id) unique index:
// ON CONFLICT DO NOTHING, then read back whichever row won.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, a domain.VisitorAssignment) (domain.VisitorAssignment, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.VisitorAssignment{}, false, fmt.Errorf("context error: %w", err)
	}

	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "experiment_id"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).
		Create(&a)
	if res.Error != nil {
		return domain.VisitorAssignment{}, false, fmt.Errorf("failed to insert visitor_assignment: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return a, true, nil
	}

	stored, err := r.GetAssignment(ctx, a.ExperimentID, a.VisitorID)
	if err != nil {
		return domain.VisitorAssignment{}, false, err
	}
	if stored == nil {
		return domain.VisitorAssignment{}, false, fmt.Errorf("visitor_assignment for %s/%s vanished after conflict", a.ExperimentID, a.VisitorID)
	}
	return *stored, false, nil
}
