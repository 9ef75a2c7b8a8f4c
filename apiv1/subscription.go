package apiv1

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"preview-api/meta"
)

// SubscriptionStatus is the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionPending   SubscriptionStatus = "PENDING"
)

// BillingCycle is how often a subscription is charged
type BillingCycle string

const (
	CycleMonthly BillingCycle = "MONTHLY"
	CycleAnnual  BillingCycle = "ANNUAL"
)

// ParseBillingCycle parses a billing cycle, defaulting to MONTHLY when empty.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch c := BillingCycle(strings.ToUpper(strings.TrimSpace(s))); c {
	case "":
		return CycleMonthly, nil
	case CycleMonthly, CycleAnnual:
		return c, nil
	}
	return "", errors.Wrapf(ErrInvalidBillingCycle, "%q", s)
}

// EndFrom returns the end of one billing period starting at start.
func (c BillingCycle) EndFrom(start time.Time) time.Time {
	if c == CycleAnnual {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

// Subscription binds a user to a plan for a billing period
type Subscription struct {
	meta.BaseResource `json:",inline"`

	UserID        uint               `gorm:"not null;index" json:"userId"`
	User          *User              `gorm:"foreignKey:UserID" json:"-"`
	PlanID        uint               `gorm:"not null" json:"planId"`
	Plan          *Plan              `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	StartDate     time.Time          `gorm:"not null" json:"startDate"`
	EndDate       time.Time          `gorm:"not null;index" json:"endDate"`
	Status        SubscriptionStatus `gorm:"size:20;not null;index" json:"status"`
	PaymentAmount int                `gorm:"not null" json:"paymentAmount"`
	Cycle         BillingCycle       `gorm:"size:20;not null" json:"billingCycle"`
	Active        bool               `gorm:"not null" json:"active"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionCreated is recorded when a subscription starts
type SubscriptionCreated struct {
	meta.EventBase
	UserID   uint         `json:"userId"`
	PlanType PlanType     `json:"planType"`
	Cycle    BillingCycle `json:"billingCycle"`
	EndDate  time.Time    `json:"endDate"`
}

func (SubscriptionCreated) EventName() string { return "SubscriptionCreated" }

// SubscriptionCancelledEvent is recorded when an active subscription is cancelled
type SubscriptionCancelledEvent struct {
	meta.EventBase
	SubscriptionID uint `json:"subscriptionId"`
	UserID         uint `json:"userId"`
}

func (SubscriptionCancelledEvent) EventName() string { return "SubscriptionCancelled" }

// SubscriptionRenewed is recorded when an inactive subscription is renewed
type SubscriptionRenewed struct {
	meta.EventBase
	SubscriptionID uint      `json:"subscriptionId"`
	UserID         uint      `json:"userId"`
	NewEndDate     time.Time `json:"newEndDate"`
}

func (SubscriptionRenewed) EventName() string { return "SubscriptionRenewed" }

// NewSubscription starts an active subscription for user on plan at now.
func NewSubscription(user *User, plan *Plan, cycle BillingCycle, now time.Time) *Subscription {
	s := &Subscription{
		UserID:        user.ID,
		User:          user,
		PlanID:        plan.ID,
		Plan:          plan,
		StartDate:     now,
		EndDate:       cycle.EndFrom(now),
		Status:        SubscriptionActive,
		PaymentAmount: plan.PriceFor(cycle),
		Cycle:         cycle,
		Active:        true,
	}
	s.RecordEvent(SubscriptionCreated{
		EventBase: meta.NewEventBase(),
		UserID:    user.ID,
		PlanType:  plan.Type,
		Cycle:     cycle,
		EndDate:   s.EndDate,
	})
	return s
}

// IsActive reports whether the subscription is currently in force.
func (s *Subscription) IsActive() bool {
	return s.Active && s.Status == SubscriptionActive
}

// IsValidAt reports whether the subscription is active and not yet past its end.
func (s *Subscription) IsValidAt(now time.Time) bool {
	return s.IsActive() && s.EndDate.After(now)
}

// Cancel ends an active subscription at now.
func (s *Subscription) Cancel(now time.Time) error {
	if !s.IsActive() {
		return ErrSubscriptionNotActive
	}
	s.Status = SubscriptionCancelled
	s.Active = false
	s.EndDate = now
	s.RecordEvent(SubscriptionCancelledEvent{EventBase: meta.NewEventBase(), SubscriptionID: s.ID, UserID: s.UserID})
	return nil
}

// Renew restarts an inactive subscription for another billing period.
func (s *Subscription) Renew(now time.Time) error {
	if s.IsActive() {
		return ErrSubscriptionAlreadyActive
	}
	s.StartDate = now
	s.EndDate = s.Cycle.EndFrom(now)
	s.Status = SubscriptionActive
	s.Active = true
	s.RecordEvent(SubscriptionRenewed{
		EventBase:      meta.NewEventBase(),
		SubscriptionID: s.ID,
		UserID:         s.UserID,
		NewEndDate:     s.EndDate,
	})
	return nil
}

// Expire marks a subscription whose period has passed.
func (s *Subscription) Expire() {
	s.Status = SubscriptionExpired
	s.Active = false
}
