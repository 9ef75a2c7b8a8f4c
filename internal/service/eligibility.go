package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"preview-api/apiv1"
)

// InterviewTokenCost is the number of tokens reserved for one interview.
const InterviewTokenCost = 5000

// Eligibility is the outcome of an interview eligibility check
type Eligibility struct {
	Eligible  bool      `json:"eligible"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func eligible(msg string) Eligibility {
	return Eligibility{Eligible: true, Message: msg, Timestamp: time.Now()}
}

func notEligible(msg string) Eligibility {
	return Eligibility{Eligible: false, Message: msg, Timestamp: time.Now()}
}

// EligibilityService decides whether a user may start an interview
type EligibilityService struct {
	usage  *UsageService
	logger *slog.Logger
}

func NewEligibilityService(usage *UsageService, logger *slog.Logger) *EligibilityService {
	return &EligibilityService{usage: usage, logger: logger}
}

// Check evaluates the user's account, subscription and remaining tokens.
func (s *EligibilityService) Check(ctx context.Context, user *apiv1.User) (Eligibility, error) {
	if user == nil || user.ID == 0 {
		return notEligible("user information is missing"), nil
	}
	if user.IsAdmin() {
		return eligible("interview is available"), nil
	}

	result, err := s.checkSubscription(ctx, user)
	if err != nil || !result.Eligible {
		return result, err
	}

	ok, err := s.usage.CheckTokenUsage(ctx, user.ID, InterviewTokenCost)
	switch {
	case errors.Is(err, apiv1.ErrNoActiveSubscription):
		s.logger.WarnContext(ctx, "token usage check without a subscription in force",
			slog.Uint64("user_id", uint64(user.ID)))
		return notEligible("subscription information unavailable, please subscribe to a plan"), nil
	case err != nil:
		return Eligibility{}, err
	case !ok:
		s.logger.InfoContext(ctx, "monthly token limit reached", slog.Uint64("user_id", uint64(user.ID)))
		return notEligible("monthly token usage exceeded, upgrade your plan or wait until next month"), nil
	}
	return result, nil
}

func (s *EligibilityService) checkSubscription(ctx context.Context, user *apiv1.User) (Eligibility, error) {
	if !user.Active {
		return notEligible("account is deactivated"), nil
	}
	sub, err := s.usage.ActiveSubscription(ctx, user.ID)
	switch {
	case err == nil && sub.IsValidAt(time.Now()):
		return eligible("interview is available"), nil
	case err != nil && !errors.Is(err, apiv1.ErrNoActiveSubscription):
		return Eligibility{}, err
	case user.Plan != nil && user.Plan.Type == apiv1.PlanFree:
		return eligible("interviews are limited on the free plan"), nil
	case user.Plan != nil && user.Plan.Active:
		return eligible("interview is available"), nil
	default:
		return notEligible("no active subscription, please subscribe to a plan"), nil
	}
}

// Require returns ErrNotEligible carrying the reason when the user may not start an interview.
func (s *EligibilityService) Require(ctx context.Context, user *apiv1.User) error {
	result, err := s.Check(ctx, user)
	if err != nil {
		return err
	}
	if !result.Eligible {
		return errors.Wrap(apiv1.ErrNotEligible, result.Message)
	}
	return nil
}
