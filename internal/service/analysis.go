package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

const (
	trendDays   = 14
	topJobRoles = 5
)

// BasicAnalysis summarises a user's practice history
type BasicAnalysis struct {
	SessionCount   int64 `json:"sessionCount"`
	CompletedCount int   `json:"completedCount"`
	TotalMinutes   int   `json:"totalMinutes"`
}

// AdvancedAnalysis adds this month's token breakdown and session length
type AdvancedAnalysis struct {
	BasicAnalysis
	TokensThisMonth        int                     `json:"tokensThisMonth"`
	UsageByType            map[apiv1.UsageType]int `json:"usageByType"`
	AverageDurationMinutes float64                 `json:"averageDurationMinutes"`
}

// JobRoleCount is how often a job role was practised
type JobRoleCount struct {
	JobRole apiv1.JobRole `json:"jobRole"`
	Name    string        `json:"name"`
	Count   int           `json:"count"`
}

// PremiumAnalysis adds the daily token trend and favourite job roles
type PremiumAnalysis struct {
	AdvancedAnalysis
	DailyTokens map[string]int `json:"dailyTokens"`
	TopJobRoles []JobRoleCount `json:"topJobRoles"`
}

// AnalysisService computes practice statistics for a user
type AnalysisService struct {
	sessions *internal.DAO[apiv1.InterviewSession]
	usage    *UsageService
	now      func() time.Time
}

func NewAnalysisService(db *gorm.DB, usage *UsageService) *AnalysisService {
	return &AnalysisService{
		sessions: internal.NewDAO[apiv1.InterviewSession](db),
		usage:    usage,
		now:      time.Now,
	}
}

func (s *AnalysisService) userSessions(ctx context.Context, userID uint) ([]apiv1.InterviewSession, error) {
	return s.sessions.Find(ctx, internal.Where("user_id = ?", userID), internal.OrderBy("started_at"))
}

func basicOf(sessions []apiv1.InterviewSession) BasicAnalysis {
	b := BasicAnalysis{SessionCount: int64(len(sessions))}
	for i := range sessions {
		if sessions[i].IsCompleted() {
			b.CompletedCount++
			b.TotalMinutes += sessions[i].DurationMinutes()
		}
	}
	return b
}

func (s *AnalysisService) advancedOf(ctx context.Context, userID uint, sessions []apiv1.InterviewSession) (AdvancedAnalysis, error) {
	a := AdvancedAnalysis{BasicAnalysis: basicOf(sessions), UsageByType: map[apiv1.UsageType]int{}}
	if a.CompletedCount > 0 {
		a.AverageDurationMinutes = float64(a.TotalMinutes) / float64(a.CompletedCount)
	}

	now := s.now()
	entries, err := s.usage.History(ctx, userID, apiv1.StartOfMonth(now), now.Add(time.Second))
	if err != nil {
		return a, err
	}
	for _, e := range entries {
		a.UsageByType[e.UsageType] += e.TokenUsage
		a.TokensThisMonth += e.TokenUsage
	}
	return a, nil
}

// Basic returns the session count and total practice time of the user.
func (s *AnalysisService) Basic(ctx context.Context, userID uint) (BasicAnalysis, error) {
	sessions, err := s.userSessions(ctx, userID)
	if err != nil {
		return BasicAnalysis{}, err
	}
	return basicOf(sessions), nil
}

// Advanced adds the per-type token usage of this month and the average session length.
func (s *AnalysisService) Advanced(ctx context.Context, userID uint) (AdvancedAnalysis, error) {
	sessions, err := s.userSessions(ctx, userID)
	if err != nil {
		return AdvancedAnalysis{}, err
	}
	return s.advancedOf(ctx, userID, sessions)
}

// Premium adds the token trend of the last two weeks and the most practised job roles.
func (s *AnalysisService) Premium(ctx context.Context, userID uint) (PremiumAnalysis, error) {
	sessions, err := s.userSessions(ctx, userID)
	if err != nil {
		return PremiumAnalysis{}, err
	}
	advanced, err := s.advancedOf(ctx, userID, sessions)
	if err != nil {
		return PremiumAnalysis{}, err
	}
	p := PremiumAnalysis{AdvancedAnalysis: advanced, DailyTokens: map[string]int{}}

	now := s.now()
	today := apiv1.StartOfDay(now)
	from := today.AddDate(0, 0, -(trendDays - 1))
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		p.DailyTokens[d.Format(time.DateOnly)] = 0
	}
	entries, err := s.usage.History(ctx, userID, from, now.Add(time.Second))
	if err != nil {
		return PremiumAnalysis{}, err
	}
	for _, e := range entries {
		p.DailyTokens[e.UsageDate.In(now.Location()).Format(time.DateOnly)] += e.TokenUsage
	}

	counts := map[apiv1.JobRole]int{}
	for i := range sessions {
		if role := sessions[i].JobRole; role != "" {
			counts[role]++
		}
	}
	for role, n := range counts {
		p.TopJobRoles = append(p.TopJobRoles, JobRoleCount{
			JobRole: role,
			Name:    apiv1.DisplayNameEn(apiv1.JobRoles, string(role)),
			Count:   n,
		})
	}
	sort.Slice(p.TopJobRoles, func(i, j int) bool {
		if p.TopJobRoles[i].Count != p.TopJobRoles[j].Count {
			return p.TopJobRoles[i].Count > p.TopJobRoles[j].Count
		}
		return p.TopJobRoles[i].JobRole < p.TopJobRoles[j].JobRole
	})
	if len(p.TopJobRoles) > topJobRoles {
		p.TopJobRoles = p.TopJobRoles[:topJobRoles]
	}
	if p.TopJobRoles == nil {
		p.TopJobRoles = []JobRoleCount{}
	}
	return p, nil
}
