package apiv1

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	now := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	user := NewSocialUser(googleProfile(), testPlan(t, PlanFree))
	std := testPlan(t, PlanStandard)

	monthly := NewSubscription(user, std, CycleMonthly, now)
	assert.True(t, monthly.IsActive())
	assert.Equal(t, now.AddDate(0, 1, 0), monthly.EndDate)
	assert.Equal(t, 9900, monthly.PaymentAmount)

	annual := NewSubscription(user, std, CycleAnnual, now)
	assert.Equal(t, now.AddDate(1, 0, 0), annual.EndDate)
	assert.Equal(t, 99000, annual.PaymentAmount)

	events := annual.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "SubscriptionCreated", events[0].EventName())
}

func TestSubscription_CancelAndRenew(t *testing.T) {
	now := time.Now()
	user := NewSocialUser(googleProfile(), testPlan(t, PlanFree))
	sub := NewSubscription(user, testPlan(t, PlanPro), CycleMonthly, now.Add(-time.Hour))
	sub.PullEvents()

	err := sub.Renew(now)
	assert.True(t, errors.Is(err, ErrSubscriptionAlreadyActive))

	require.NoError(t, sub.Cancel(now))
	assert.False(t, sub.IsActive())
	assert.Equal(t, SubscriptionCancelled, sub.Status)
	assert.Equal(t, now, sub.EndDate)

	err = sub.Cancel(now)
	assert.True(t, errors.Is(err, ErrSubscriptionNotActive))

	later := now.Add(24 * time.Hour)
	require.NoError(t, sub.Renew(later))
	assert.True(t, sub.IsActive())
	assert.Equal(t, later, sub.StartDate)
	assert.Equal(t, later.AddDate(0, 1, 0), sub.EndDate)

	events := sub.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "SubscriptionCancelled", events[0].EventName())
	assert.Equal(t, "SubscriptionRenewed", events[1].EventName())
}

func TestSubscription_IsValidAt(t *testing.T) {
	now := time.Now()
	user := NewSocialUser(googleProfile(), testPlan(t, PlanFree))
	sub := NewSubscription(user, testPlan(t, PlanFree), CycleMonthly, now.AddDate(0, -2, 0))

	assert.True(t, sub.IsActive())
	assert.False(t, sub.IsValidAt(now))

	sub.Expire()
	assert.False(t, sub.IsActive())
	assert.Equal(t, SubscriptionExpired, sub.Status)
}

func TestParseBillingCycle(t *testing.T) {
	c, err := ParseBillingCycle("")
	require.NoError(t, err)
	assert.Equal(t, CycleMonthly, c)

	c, err = ParseBillingCycle("annual")
	require.NoError(t, err)
	assert.Equal(t, CycleAnnual, c)

	_, err = ParseBillingCycle("weekly")
	assert.True(t, errors.Is(err, BadParameterError))
}

func TestNewQuota(t *testing.T) {
	now := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)

	q := NewQuota(10000, 2500, now)
	assert.Equal(t, 7500, q.RemainingTokens)
	assert.InDelta(t, 25.0, q.UsagePercentage, 0.001)
	assert.Equal(t, "2027-01-01", q.ResetDate)

	over := NewQuota(100, 250, now)
	assert.Zero(t, over.RemainingTokens)

	assert.Zero(t, NewQuota(0, 0, now).UsagePercentage)
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, WeekOfMonth(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekOfMonth(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekOfMonth(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5, WeekOfMonth(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}
