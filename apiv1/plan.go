package apiv1

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/meta"
)

// PlanType is the tier of a subscription plan
type PlanType string

const (
	PlanFree     PlanType = "FREE"
	PlanStandard PlanType = "STANDARD"
	PlanPro      PlanType = "PRO"
)

// ProMinTokenLimit is the lowest monthly token limit a PRO plan may carry.
const ProMinTokenLimit = 100000

// ParsePlanType parses a plan type case-insensitively.
func ParsePlanType(s string) (PlanType, error) {
	switch t := PlanType(strings.ToUpper(strings.TrimSpace(s))); t {
	case PlanFree, PlanStandard, PlanPro:
		return t, nil
	}
	return "", errors.Wrapf(ErrInvalidPlanType, "%q", s)
}

// Role returns the role granted to users subscribed to this plan type.
func (t PlanType) Role() Role {
	switch t {
	case PlanStandard:
		return RoleStandard
	case PlanPro:
		return RolePro
	default:
		return RoleFree
	}
}

// Plan is a purchasable subscription tier
type Plan struct {
	meta.BaseResource `json:",inline"`

	Type              PlanType `gorm:"size:20;not null;uniqueIndex" json:"type"`
	Name              string   `gorm:"size:50;not null" json:"name"`
	MonthlyPrice      int      `gorm:"not null" json:"monthlyPrice"`
	AnnualPrice       int      `gorm:"not null" json:"annualPrice"`
	MonthlyTokenLimit int      `gorm:"not null" json:"monthlyTokenLimit"`
	Active            bool     `gorm:"not null;default:true" json:"active"`
}

// TableName specifies the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// PlanCreated is recorded when a new plan is created
type PlanCreated struct {
	meta.EventBase
	PlanType PlanType `json:"planType"`
	Name     string   `json:"name"`
}

func (PlanCreated) EventName() string { return "PlanCreated" }

// NewPlan builds a validated, active plan and records PlanCreated.
func NewPlan(planType PlanType, name string, monthly, annual, tokenLimit int) (*Plan, error) {
	p := &Plan{
		Type:              planType,
		Name:              name,
		MonthlyPrice:      monthly,
		AnnualPrice:       annual,
		MonthlyTokenLimit: tokenLimit,
		Active:            true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.RecordEvent(PlanCreated{EventBase: meta.NewEventBase(), PlanType: planType, Name: name})
	return p, nil
}

// Validate implements meta.ResourceValidator
func (p *Plan) Validate() error {
	if _, err := ParsePlanType(string(p.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.Wrap(BadParameterError, "plan name is required")
	}
	if p.MonthlyPrice < 0 || p.AnnualPrice < 0 {
		return errors.Wrap(ErrInvalidPlanPrice, "prices must not be negative")
	}
	if p.MonthlyTokenLimit < 0 {
		return errors.Wrap(BadParameterError, "token limit must not be negative")
	}
	if p.Type == PlanFree && (p.MonthlyPrice != 0 || p.AnnualPrice != 0) {
		return errors.Wrap(ErrInvalidPlanPrice, "free plan must be free")
	}
	if p.Type == PlanPro && p.MonthlyTokenLimit < ProMinTokenLimit {
		return errors.Wrapf(BadParameterError, "pro plan needs at least %d tokens", ProMinTokenLimit)
	}
	return nil
}

// BeforeSave checks the plan invariants on every write
func (p *Plan) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// PriceFor returns the price charged for one billing cycle.
func (p *Plan) PriceFor(cycle BillingCycle) int {
	if cycle == CycleAnnual {
		return p.AnnualPrice
	}
	return p.MonthlyPrice
}

// AnnualDiscountRate is the percentage saved by paying annually.
func (p *Plan) AnnualDiscountRate() float64 {
	yearly := p.MonthlyPrice * 12
	if yearly == 0 {
		return 0
	}
	return float64(yearly-p.AnnualPrice) / float64(yearly) * 100
}

// Activate marks the plan purchasable.
func (p *Plan) Activate() { p.Active = true }

// Deactivate hides the plan from new subscriptions.
func (p *Plan) Deactivate() { p.Active = false }

// PlanComparison is the difference between two plans
type PlanComparison struct {
	Plan1                  *Plan `json:"plan1"`
	Plan2                  *Plan `json:"plan2"`
	MonthlyPriceDifference int   `json:"monthlyPriceDifference"`
	AnnualPriceDifference  int   `json:"annualPriceDifference"`
	TokenLimitDifference   int   `json:"tokenLimitDifference"`
}

// ComparePlans reports plan2 minus plan1 for prices and token limits.
func ComparePlans(p1, p2 *Plan) PlanComparison {
	return PlanComparison{
		Plan1:                  p1,
		Plan2:                  p2,
		MonthlyPriceDifference: p2.MonthlyPrice - p1.MonthlyPrice,
		AnnualPriceDifference:  p2.AnnualPrice - p1.AnnualPrice,
		TokenLimitDifference:   p2.MonthlyTokenLimit - p1.MonthlyTokenLimit,
	}
}
