package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-api/apiv1"
)

func TestPlanService(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()

	plans, err := s.plans.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, apiv1.PlanFree, plans[0].Type)
	assert.Equal(t, apiv1.PlanPro, plans[2].Type)

	_, err = s.plans.GetByType(ctx, "ENTERPRISE")
	assert.True(t, errors.Is(err, apiv1.ErrPlanNotFound))

	cmp, err := s.plans.Compare(ctx, apiv1.PlanStandard, apiv1.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, 9100, cmp.MonthlyPriceDifference)
	assert.Equal(t, 50000, cmp.TokenLimitDifference)

	dup, err := apiv1.NewPlan(apiv1.PlanFree, "Free again", 0, 0, 100)
	require.NoError(t, err)
	err = s.plans.Create(ctx, dup)
	assert.True(t, errors.Is(err, apiv1.ConflictError))

	n, err := s.plans.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSubscriptionService_Create(t *testing.T) {
	s := newServices(t)
	plans := seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	initial, err := s.subscriptions.ActiveByUser(ctx, user.ID)
	require.NoError(t, err)

	sub, err := s.subscriptions.Create(ctx, user.ID, apiv1.PlanStandard, apiv1.CycleAnnual)
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
	assert.Equal(t, 99000, sub.PaymentAmount)
	assert.Equal(t, sub.StartDate.AddDate(1, 0, 0), sub.EndDate)

	old, err := s.subscriptions.Get(ctx, initial.ID)
	require.NoError(t, err)
	assert.Equal(t, apiv1.SubscriptionCancelled, old.Status)
	assert.False(t, old.Active)

	reloaded, err := s.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, plans[apiv1.PlanStandard].ID, reloaded.PlanID)
	assert.Equal(t, apiv1.RoleStandard, reloaded.Role)

	active, err := s.subscriptions.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	list, err := s.subscriptions.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sub.ID, list[0].ID)

	assert.Contains(t, s.events.names, "SubscriptionCancelled")
	assert.Contains(t, s.events.names, "UserPlanChanged")
}

func TestSubscriptionService_CreateErrors(t *testing.T) {
	s := newServices(t)
	plans := seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")

	_, err := s.subscriptions.Create(ctx, 999, apiv1.PlanPro, apiv1.CycleMonthly)
	assert.True(t, errors.Is(err, apiv1.ErrUserNotFound))

	pro := plans[apiv1.PlanPro]
	pro.Deactivate()
	require.NoError(t, s.db.Save(pro).Error)
	_, err = s.subscriptions.Create(ctx, user.ID, apiv1.PlanPro, apiv1.CycleMonthly)
	assert.True(t, errors.Is(err, apiv1.ErrPlanInactive))

	_, err = s.subscriptions.ActiveByUser(ctx, user.ID)
	assert.NoError(t, err, "a failed upgrade keeps the current subscription")
}

func TestSubscriptionService_CancelRenew(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	sub, err := s.subscriptions.Create(ctx, user.ID, apiv1.PlanPro, apiv1.CycleMonthly)
	require.NoError(t, err)

	_, err = s.subscriptions.Renew(ctx, sub.ID)
	assert.True(t, errors.Is(err, apiv1.ErrSubscriptionAlreadyActive))

	cancelled, err := s.subscriptions.Cancel(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, apiv1.SubscriptionCancelled, cancelled.Status)

	_, err = s.subscriptions.Cancel(ctx, sub.ID)
	assert.True(t, errors.Is(err, apiv1.ErrSubscriptionNotActive))
	assert.True(t, errors.Is(err, apiv1.BadParameterError))

	renewed, err := s.subscriptions.Renew(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, renewed.IsActive())
	assert.True(t, renewed.EndDate.After(time.Now()))

	_, err = s.subscriptions.Get(ctx, 999)
	assert.True(t, errors.Is(err, apiv1.ErrSubscriptionNotFound))

	require.NoError(t, s.subscriptions.CancelActiveByUser(ctx, user.ID))
	require.NoError(t, s.subscriptions.CancelActiveByUser(ctx, user.ID), "no active subscription is a no-op")
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	alice := s.signUp(t, "uid-a", "alice@example.com")
	s.signUp(t, "uid-b", "bob@example.com")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, s.db.Model(&apiv1.Subscription{}).Where("user_id = ?", alice.ID).
		UpdateColumn("end_date", past).Error)

	n, err := s.subscriptions.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.subscriptions.ActiveByUser(ctx, alice.ID)
	assert.True(t, errors.Is(err, apiv1.ErrNoActiveSubscription))

	list, err := s.subscriptions.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, apiv1.SubscriptionExpired, list[0].Status)

	n, err = s.subscriptions.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
