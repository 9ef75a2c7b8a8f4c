package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

// UsageService records token consumption and enforces monthly quotas
type UsageService struct {
	db            *gorm.DB
	usages        *internal.DAO[apiv1.UserUsage]
	subscriptions *internal.DAO[apiv1.Subscription]
	logger        *slog.Logger
	now           func() time.Time
}

func NewUsageService(db *gorm.DB, logger *slog.Logger) *UsageService {
	return &UsageService{
		db:            db,
		usages:        internal.NewDAO[apiv1.UserUsage](db),
		subscriptions: internal.NewDAO[apiv1.Subscription](db),
		logger:        logger,
		now:           time.Now,
	}
}

// Record stores a usage entry for the user at the current time.
func (s *UsageService) Record(ctx context.Context, userID uint, tokens int, usageType apiv1.UsageType, description string) (*apiv1.UserUsage, error) {
	if tokens < 0 {
		return nil, errors.Wrap(apiv1.BadParameterError, "token usage must not be negative")
	}
	usage := &apiv1.UserUsage{
		UserID:      userID,
		UsageDate:   s.now(),
		TokenUsage:  tokens,
		UsageType:   usageType,
		Description: description,
	}
	if err := s.usages.Create(ctx, usage); err != nil {
		return nil, errors.Wrap(err, "record usage")
	}
	return usage, nil
}

func (s *UsageService) sumSince(ctx context.Context, userID uint, from, to time.Time) (int, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&apiv1.UserUsage{}).
		Where("user_id = ? AND usage_date >= ? AND usage_date < ?", userID, from, to).
		Select("COALESCE(SUM(token_usage), 0)").
		Scan(&total).Error
	return int(total), err
}

// CurrentMonthUsage sums the tokens used since the first day of this month.
func (s *UsageService) CurrentMonthUsage(ctx context.Context, userID uint) (int, error) {
	now := s.now()
	return s.sumSince(ctx, userID, apiv1.StartOfMonth(now), now.Add(time.Second))
}

// TokensUsedSince sums every user's tokens since from.
func (s *UsageService) TokensUsedSince(ctx context.Context, from time.Time) (int, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&apiv1.UserUsage{}).
		Where("usage_date >= ?", from).
		Select("COALESCE(SUM(token_usage), 0)").
		Scan(&total).Error
	return int(total), err
}

// History lists the user's usage entries in [from, to), newest first.
func (s *UsageService) History(ctx context.Context, userID uint, from, to time.Time) ([]apiv1.UserUsage, error) {
	return s.usages.Find(ctx,
		internal.Where("user_id = ? AND usage_date >= ? AND usage_date < ?", userID, from, to),
		internal.OrderBy("usage_date desc"))
}

// ActiveSubscription returns the user's subscription currently in force.
func (s *UsageService) ActiveSubscription(ctx context.Context, userID uint) (*apiv1.Subscription, error) {
	sub, err := s.subscriptions.First(ctx,
		internal.Where("user_id = ? AND active = ? AND status = ?", userID, true, apiv1.SubscriptionActive),
		internal.OrderBy("end_date desc"),
		internal.Preload("Plan"))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, apiv1.ErrNoActiveSubscription
	}
	return sub, err
}

// CheckTokenUsage reports whether the user can spend required more tokens this month.
// It needs a subscription in force; ErrNoActiveSubscription is returned otherwise.
func (s *UsageService) CheckTokenUsage(ctx context.Context, userID uint, required int) (bool, error) {
	sub, err := s.ActiveSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if !sub.IsValidAt(s.now()) || sub.Plan == nil {
		return false, apiv1.ErrNoActiveSubscription
	}
	return s.fitsLimit(ctx, userID, sub.Plan.MonthlyTokenLimit, required)
}

func (s *UsageService) fitsLimit(ctx context.Context, userID uint, limit, required int) (bool, error) {
	used, err := s.CurrentMonthUsage(ctx, userID)
	if err != nil {
		return false, err
	}
	return used+required <= limit, nil
}

// Quota computes the user's monthly token quota from their plan.
func (s *UsageService) Quota(ctx context.Context, user *apiv1.User) (apiv1.Quota, error) {
	limit := 0
	if sub, err := s.ActiveSubscription(ctx, user.ID); err == nil && sub.Plan != nil {
		limit = sub.Plan.MonthlyTokenLimit
	} else if user.Plan != nil {
		limit = user.Plan.MonthlyTokenLimit
	} else if err != nil && !errors.Is(err, apiv1.ErrNoActiveSubscription) {
		return apiv1.Quota{}, err
	}

	used, err := s.CurrentMonthUsage(ctx, user.ID)
	if err != nil {
		return apiv1.Quota{}, err
	}
	return apiv1.NewQuota(limit, used, s.now()), nil
}

// Remaining returns how many tokens the user has left this month.
func (s *UsageService) Remaining(ctx context.Context, user *apiv1.User) (int, error) {
	q, err := s.Quota(ctx, user)
	return q.RemainingTokens, err
}

// QuotaHistory aggregates the user's usage per day over the last seven days
// and per week of the current month.
func (s *UsageService) QuotaHistory(ctx context.Context, userID uint) (apiv1.QuotaHistory, error) {
	now := s.now()
	today := apiv1.StartOfDay(now)
	monthStart := apiv1.StartOfMonth(now)

	from := today.AddDate(0, 0, -6)
	if monthStart.Before(from) {
		from = monthStart
	}
	entries, err := s.History(ctx, userID, from, now.Add(time.Second))
	if err != nil {
		return apiv1.QuotaHistory{}, err
	}

	history := apiv1.QuotaHistory{Daily: make(map[string]int), Weekly: make(map[string]int)}
	for i := 6; i >= 0; i-- {
		history.Daily[today.AddDate(0, 0, -i).Format(time.DateOnly)] = 0
	}
	for w := 1; w <= apiv1.WeekOfMonth(now); w++ {
		history.Weekly[fmt.Sprintf("Week %d", w)] = 0
	}

	for _, e := range entries {
		day := e.UsageDate.In(now.Location())
		if key := day.Format(time.DateOnly); !day.Before(today.AddDate(0, 0, -6)) {
			history.Daily[key] += e.TokenUsage
		}
		if !day.Before(monthStart) {
			history.Weekly[fmt.Sprintf("Week %d", apiv1.WeekOfMonth(day))] += e.TokenUsage
		}
	}
	return history, nil
}
