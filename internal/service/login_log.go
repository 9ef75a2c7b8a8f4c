package service

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

// LoginHistoryFilter narrows a login history lookup. Zero values are ignored.
type LoginHistoryFilter struct {
	Start   time.Time
	End     time.Time
	Success *bool
}

// LoginLogService stores and queries sign-in attempts
type LoginLogService struct {
	logs   *internal.DAO[apiv1.UserLoginLog]
	logger *slog.Logger
}

func NewLoginLogService(db *gorm.DB, logger *slog.Logger) *LoginLogService {
	return &LoginLogService{
		logs:   internal.NewDAO[apiv1.UserLoginLog](db),
		logger: logger,
	}
}

// RecordSuccess stores a successful login for the user.
func (s *LoginLogService) RecordSuccess(ctx context.Context, userID uint, info apiv1.LoginInfo) (*apiv1.UserLoginLog, error) {
	entry := apiv1.NewLoginLog(userID, info, true, "")
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordFailure stores a failed login. Storage errors are logged only.
func (s *LoginLogService) RecordFailure(ctx context.Context, userID uint, info apiv1.LoginInfo, reason string) {
	entry := apiv1.NewLoginLog(userID, info, false, reason)
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to record failed login",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()))
	}
}

// History returns the user's login attempts, newest first.
func (s *LoginLogService) History(ctx context.Context, userID uint, filter LoginHistoryFilter) ([]apiv1.UserLoginLog, error) {
	queries := []internal.Query{internal.Where("user_id = ?", userID)}
	if !filter.Start.IsZero() {
		queries = append(queries, internal.Where("login_at >= ?", filter.Start))
	}
	if !filter.End.IsZero() {
		queries = append(queries, internal.Where("login_at <= ?", filter.End))
	}
	if filter.Success != nil {
		queries = append(queries, internal.Where("successful = ?", *filter.Success))
	}
	queries = append(queries, internal.OrderBy("login_at desc, id desc"))
	return s.logs.Find(ctx, queries...)
}

// Recent returns the latest login attempts across all users.
func (s *LoginLogService) Recent(ctx context.Context, limit int) ([]apiv1.UserLoginLog, error) {
	return s.logs.Find(ctx,
		internal.OrderBy("login_at desc, id desc"),
		func(db *gorm.DB) *gorm.DB { return db.Limit(limit) })
}
