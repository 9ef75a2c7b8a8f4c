package service

import (
	"context"
	"time"

	"preview-api/apiv1"
)

const defaultActivityLimit = 20

// SystemStats is the operator dashboard summary
type SystemStats struct {
	ActiveUsers         int64                `json:"activeUsers"`
	UsersByRole         map[apiv1.Role]int64 `json:"usersByRole"`
	TokensUsedToday     int                  `json:"tokensUsedToday"`
	ActiveSubscriptions int64                `json:"activeSubscriptions"`
	SessionsToday       int64                `json:"sessionsToday"`
	GeneratedAt         time.Time            `json:"generatedAt"`
}

// AdminService aggregates data for operators
type AdminService struct {
	users         *UserService
	subscriptions *SubscriptionService
	usage         *UsageService
	interviews    *InterviewService
	loginLogs     *LoginLogService
	now           func() time.Time
}

func NewAdminService(users *UserService, subscriptions *SubscriptionService, usage *UsageService, interviews *InterviewService, loginLogs *LoginLogService) *AdminService {
	return &AdminService{
		users:         users,
		subscriptions: subscriptions,
		usage:         usage,
		interviews:    interviews,
		loginLogs:     loginLogs,
		now:           time.Now,
	}
}

// Stats computes the current system statistics.
func (s *AdminService) Stats(ctx context.Context) (*SystemStats, error) {
	now := s.now()
	today := apiv1.StartOfDay(now)
	stats := &SystemStats{GeneratedAt: now}

	var err error
	if stats.ActiveUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return nil, err
	}
	if stats.TokensUsedToday, err = s.usage.TokensUsedSince(ctx, today); err != nil {
		return nil, err
	}
	if stats.ActiveSubscriptions, err = s.subscriptions.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.SessionsToday, err = s.interviews.CountStartedSince(ctx, today); err != nil {
		return nil, err
	}
	return stats, nil
}

// UserActivities returns the latest login attempts across all users.
func (s *AdminService) UserActivities(ctx context.Context, limit int) ([]apiv1.UserLoginLog, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultActivityLimit
	}
	return s.loginLogs.Recent(ctx, limit)
}
