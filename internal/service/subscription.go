package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/events"
	"preview-api/meta"
)

// SubscriptionService manages the subscription lifecycle
type SubscriptionService struct {
	subscriptions *internal.DAO[apiv1.Subscription]
	users         *internal.DAO[apiv1.User]
	plans         *internal.DAO[apiv1.Plan]
	dispatcher    *events.Dispatcher
	logger        *slog.Logger
	now           func() time.Time
}

func NewSubscriptionService(db *gorm.DB, dispatcher *events.Dispatcher, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: internal.NewDAO[apiv1.Subscription](db),
		users:         internal.NewDAO[apiv1.User](db),
		plans:         internal.NewDAO[apiv1.Plan](db),
		dispatcher:    dispatcher,
		logger:        logger,
		now:           time.Now,
	}
}

// Get returns a subscription with its plan.
func (s *SubscriptionService) Get(ctx context.Context, id uint) (*apiv1.Subscription, error) {
	sub, err := s.subscriptions.Get(ctx, id, internal.Preload("Plan"))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrapf(apiv1.ErrSubscriptionNotFound, "id %d", id)
	}
	return sub, err
}

// Create subscribes the user to the plan, replacing any active subscription.
// The user's plan and role follow the new subscription.
func (s *SubscriptionService) Create(ctx context.Context, userID uint, planType apiv1.PlanType, cycle apiv1.BillingCycle) (*apiv1.Subscription, error) {
	var (
		sub       *apiv1.Subscription
		user      *apiv1.User
		cancelled []meta.EventSource
	)
	err := s.subscriptions.Transaction(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		subs := s.subscriptions.WithTx(tx)

		var err error
		user, err = users.Get(ctx, userID, internal.Preload("Plan"))
		if errors.Is(err, apiv1.NotFoundError) {
			return errors.Wrapf(apiv1.ErrUserNotFound, "id %d", userID)
		}
		if err != nil {
			return err
		}
		plan, err := s.plans.WithTx(tx).First(ctx, internal.Where("type = ?", planType))
		if errors.Is(err, apiv1.NotFoundError) {
			return errors.Wrapf(apiv1.ErrPlanNotFound, "%s", planType)
		}
		if err != nil {
			return err
		}
		if !plan.Active {
			return errors.Wrapf(apiv1.ErrPlanInactive, "%s", planType)
		}

		now := s.now()
		current, err := subs.Find(ctx, internal.Where("user_id = ? AND active = ? AND status = ?", userID, true, apiv1.SubscriptionActive))
		if err != nil {
			return err
		}
		for i := range current {
			if err := current[i].Cancel(now); err != nil {
				return err
			}
			if err := subs.Save(ctx, &current[i]); err != nil {
				return errors.Wrap(err, "cancel current subscription")
			}
			cancelled = append(cancelled, &current[i])
		}

		sub = apiv1.NewSubscription(user, plan, cycle, now)
		if err := subs.Create(ctx, sub); err != nil {
			return errors.Wrap(err, "create subscription")
		}
		if user.PlanID != plan.ID {
			user.ChangePlan(plan)
		} else {
			user.SyncRole()
		}
		return users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.PublishFrom(ctx, cancelled...)
	s.dispatcher.PublishFrom(ctx, sub, user)
	return sub, nil
}

// Cancel ends an active subscription now.
func (s *SubscriptionService) Cancel(ctx context.Context, id uint) (*apiv1.Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sub.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.dispatcher.PublishFrom(ctx, sub)
	return sub, nil
}

// Renew restarts an inactive subscription for another period of its cycle.
func (s *SubscriptionService) Renew(ctx context.Context, id uint) (*apiv1.Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sub.Renew(s.now()); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.dispatcher.PublishFrom(ctx, sub)
	return sub, nil
}

// ActiveByUser returns the user's active subscription.
func (s *SubscriptionService) ActiveByUser(ctx context.Context, userID uint) (*apiv1.Subscription, error) {
	sub, err := s.subscriptions.First(ctx,
		internal.Where("user_id = ? AND active = ? AND status = ?", userID, true, apiv1.SubscriptionActive),
		internal.OrderBy("end_date desc"),
		internal.Preload("Plan"))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, apiv1.ErrNoActiveSubscription
	}
	return sub, err
}

// CancelActiveByUser cancels the user's active subscription if there is one.
func (s *SubscriptionService) CancelActiveByUser(ctx context.Context, userID uint) error {
	sub, err := s.ActiveByUser(ctx, userID)
	if errors.Is(err, apiv1.ErrNoActiveSubscription) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.Cancel(ctx, sub.ID)
	return err
}

// ListByUser returns the user's subscriptions, newest first.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID uint) ([]apiv1.Subscription, error) {
	return s.subscriptions.Find(ctx,
		internal.Where("user_id = ?", userID),
		internal.OrderBy("start_date desc, id desc"),
		internal.Preload("Plan"))
}

// CountActive returns the number of subscriptions in force.
func (s *SubscriptionService) CountActive(ctx context.Context) (int64, error) {
	return s.subscriptions.Count(ctx, internal.Where("active = ? AND status = ?", true, apiv1.SubscriptionActive))
}

// ExpireDue marks active subscriptions whose end date passed before now as expired.
// It returns the number of expired subscriptions.
func (s *SubscriptionService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.subscriptions.Find(ctx,
		internal.Where("active = ? AND status = ? AND end_date < ?", true, apiv1.SubscriptionActive, now))
	if err != nil {
		return 0, err
	}
	for i := range due {
		due[i].Expire()
		if err := s.subscriptions.Save(ctx, &due[i]); err != nil {
			return i, errors.Wrapf(err, "expire subscription %d", due[i].ID)
		}
	}
	if len(due) > 0 {
		s.logger.InfoContext(ctx, "expired subscriptions", slog.Int("count", len(due)))
	}
	return len(due), nil
}
