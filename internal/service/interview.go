package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/ai"
)

// InterviewService manages a user's practice interview sessions. Sessions of
// other users are reported as not found.
type InterviewService struct {
	sessions *internal.DAO[apiv1.InterviewSession]
	logger   *slog.Logger
}

func NewInterviewService(db *gorm.DB, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		sessions: internal.NewDAO[apiv1.InterviewSession](db),
		logger:   logger,
	}
}

// Prompt normalises the settings and renders the interviewer prompt.
func (s *InterviewService) Prompt(settings apiv1.InterviewSettings) (string, error) {
	if err := settings.Normalize(); err != nil {
		return "", err
	}
	return ai.BuildInterviewPrompt(settings), nil
}

// Start opens a new session for the user.
func (s *InterviewService) Start(ctx context.Context, userID uint, settings apiv1.InterviewSettings) (*apiv1.InterviewSession, error) {
	if err := settings.Normalize(); err != nil {
		return nil, err
	}
	session := apiv1.NewInterviewSession(userID, settings, ai.BuildInterviewPrompt(settings))
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "create interview session")
	}
	s.logger.InfoContext(ctx, "interview session started",
		slog.String("session_id", session.SessionID),
		slog.Uint64("user_id", uint64(userID)))
	return session, nil
}

// Get returns the user's session with the given session id.
func (s *InterviewService) Get(ctx context.Context, userID uint, sessionID string) (*apiv1.InterviewSession, error) {
	session, err := s.sessions.First(ctx, internal.Where("session_id = ? AND user_id = ?", sessionID, userID))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrapf(apiv1.ErrSessionNotFound, "%s", sessionID)
	}
	return session, err
}

// End closes the user's session. Ending a closed session returns it unchanged.
func (s *InterviewService) End(ctx context.Context, userID uint, sessionID string) (*apiv1.InterviewSession, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return session, nil
	}
	session.End(time.Now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns a page of the user's sessions, newest first.
func (s *InterviewService) List(ctx context.Context, userID uint, page, size int) ([]apiv1.InterviewSession, int64, error) {
	return s.sessions.List(ctx, page, size, nil,
		internal.Where("user_id = ?", userID),
		internal.OrderBy("started_at desc, id desc"))
}

// Latest returns the user's most recent session.
func (s *InterviewService) Latest(ctx context.Context, userID uint) (*apiv1.InterviewSession, error) {
	session, err := s.sessions.First(ctx,
		internal.Where("user_id = ?", userID),
		internal.OrderBy("started_at desc, id desc"))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrap(apiv1.ErrSessionNotFound, "no sessions yet")
	}
	return session, err
}

// Incomplete returns the user's sessions that were never ended.
func (s *InterviewService) Incomplete(ctx context.Context, userID uint) ([]apiv1.InterviewSession, error) {
	return s.sessions.Find(ctx,
		internal.Where("user_id = ? AND ended_at IS NULL", userID),
		internal.OrderBy("started_at desc"))
}

// Completed returns every ended session of the user.
func (s *InterviewService) Completed(ctx context.Context, userID uint) ([]apiv1.InterviewSession, error) {
	return s.sessions.Find(ctx,
		internal.Where("user_id = ? AND ended_at IS NOT NULL", userID),
		internal.OrderBy("started_at desc"))
}

// CountStartedSince counts sessions of all users started at or after from.
func (s *InterviewService) CountStartedSince(ctx context.Context, from time.Time) (int64, error) {
	return s.sessions.Count(ctx, internal.Where("started_at >= ?", from))
}
