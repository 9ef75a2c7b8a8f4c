package service

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/events"
)

// PlanService reads and maintains subscription plans
type PlanService struct {
	plans      *internal.DAO[apiv1.Plan]
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

func NewPlanService(db *gorm.DB, dispatcher *events.Dispatcher, logger *slog.Logger) *PlanService {
	return &PlanService{
		plans:      internal.NewDAO[apiv1.Plan](db),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListActive returns purchasable plans, cheapest first.
func (s *PlanService) ListActive(ctx context.Context) ([]apiv1.Plan, error) {
	return s.plans.Find(ctx, internal.Where("active = ?", true), internal.OrderBy("monthly_price, id"))
}

// GetByType returns the plan of the given type.
func (s *PlanService) GetByType(ctx context.Context, planType apiv1.PlanType) (*apiv1.Plan, error) {
	plan, err := s.plans.First(ctx, internal.Where("type = ?", planType))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrapf(apiv1.ErrPlanNotFound, "%s", planType)
	}
	return plan, err
}

// Compare reports the price and token differences between two plans.
func (s *PlanService) Compare(ctx context.Context, t1, t2 apiv1.PlanType) (apiv1.PlanComparison, error) {
	p1, err := s.GetByType(ctx, t1)
	if err != nil {
		return apiv1.PlanComparison{}, err
	}
	p2, err := s.GetByType(ctx, t2)
	if err != nil {
		return apiv1.PlanComparison{}, err
	}
	return apiv1.ComparePlans(p1, p2), nil
}

// Count returns the number of stored plans.
func (s *PlanService) Count(ctx context.Context) (int64, error) {
	return s.plans.Count(ctx)
}

// Create stores a new plan. The type must not exist yet.
func (s *PlanService) Create(ctx context.Context, plan *apiv1.Plan) error {
	n, err := s.plans.Count(ctx, internal.Where("type = ?", plan.Type))
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Wrapf(apiv1.ConflictError, "plan %s already exists", plan.Type)
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return err
	}
	s.dispatcher.PublishFrom(ctx, plan)
	return nil
}
