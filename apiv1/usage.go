package apiv1

import (
	"time"

	"preview-api/meta"
)

// UsageType categorises a token consumption record
type UsageType string

const (
	UsageInterviewStart      UsageType = "INTERVIEW_START"
	UsageInterviewContinue   UsageType = "INTERVIEW_CONTINUE"
	UsageInterviewSummary    UsageType = "INTERVIEW_SUMMARY"
	UsageInterviewEvaluation UsageType = "INTERVIEW_EVALUATION"
	UsageOther               UsageType = "OTHER"
)

// UserUsage is a single token consumption record
type UserUsage struct {
	meta.BaseResource `json:",inline"`

	UserID      uint      `gorm:"not null;index:idx_usage_user_date" json:"userId"`
	UsageDate   time.Time `gorm:"not null;index:idx_usage_user_date" json:"usageDate"`
	TokenUsage  int       `gorm:"not null" json:"tokenUsage"`
	UsageType   UsageType `gorm:"size:40;not null" json:"usageType"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
}

// TableName specifies the table name for GORM
func (UserUsage) TableName() string {
	return "user_usages"
}

// Quota summarises a user's monthly token budget
type Quota struct {
	MonthlyTokenLimit int     `json:"monthlyTokenLimit"`
	UsedTokens        int     `json:"usedTokens"`
	RemainingTokens   int     `json:"remainingTokens"`
	ResetDate         string  `json:"resetDate"`
	UsagePercentage   float64 `json:"usagePercentage"`
}

// NewQuota computes the quota view for a limit and the tokens used this month.
func NewQuota(limit, used int, now time.Time) Quota {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	var pct float64
	if limit > 0 {
		pct = float64(used) * 100 / float64(limit)
	}
	return Quota{
		MonthlyTokenLimit: limit,
		UsedTokens:        used,
		RemainingTokens:   remaining,
		ResetDate:         StartOfMonth(now).AddDate(0, 1, 0).Format(time.DateOnly),
		UsagePercentage:   pct,
	}
}

// QuotaHistory is token usage aggregated per day and per week of the month
type QuotaHistory struct {
	Daily  map[string]int `json:"daily"`
	Weekly map[string]int `json:"weekly"`
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfDay returns midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekOfMonth returns the 1-based week of the month, counting 7-day blocks from the 1st.
func WeekOfMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}
