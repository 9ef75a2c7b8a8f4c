package apiv1

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// TooManyRequestsError is rendered with the http status code 429
	TooManyRequestsError = errors.New("too many requests")
)

// User related errors
var (
	ErrUserNotFound       = errors.Wrap(NotFoundError, "user not found")
	ErrEmailAlreadyExists = errors.Wrap(ConflictError, "email already registered")
	ErrUserInactive       = errors.Wrap(BadParameterError, "user is not active")
)

// Plan related errors
var (
	ErrPlanNotFound     = errors.Wrap(NotFoundError, "plan not found")
	ErrFreePlanMissing  = errors.New("free plan is not configured")
	ErrPlanInactive     = errors.Wrap(BadParameterError, "plan is not active")
	ErrInvalidPlanType  = errors.Wrap(BadParameterError, "invalid plan type")
	ErrInvalidPlanPrice = errors.Wrap(BadParameterError, "invalid plan price")
)

// Subscription related errors
var (
	ErrSubscriptionNotFound      = errors.Wrap(NotFoundError, "subscription not found")
	ErrNoActiveSubscription      = errors.Wrap(NotFoundError, "no active subscription")
	ErrSubscriptionNotActive     = errors.Wrap(BadParameterError, "subscription is not active")
	ErrSubscriptionAlreadyActive = errors.Wrap(BadParameterError, "subscription is already active")
	ErrInvalidBillingCycle       = errors.Wrap(BadParameterError, "invalid billing cycle")
)

// Interview related errors
var (
	ErrSessionNotFound   = errors.Wrap(NotFoundError, "interview session not found")
	ErrNotEligible       = errors.Wrap(ForbiddenError, "not eligible for an interview")
	ErrEmptyConversation = errors.Wrap(BadParameterError, "conversation has no messages")
)
