package apiv1

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"preview-api/meta"
)

// Role is the authorization role of a user
type Role string

const (
	RoleFree     Role = "USER_FREE"
	RoleStandard Role = "USER_STANDARD"
	RolePro      Role = "USER_PRO"
	RoleAdmin    Role = "ADMIN"
)

// AllRoles lists every role, lowest privilege first.
var AllRoles = []Role{RoleFree, RoleStandard, RolePro, RoleAdmin}

// ParseRole parses a role name, with or without the ROLE_ prefix.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", errors.Wrapf(BadParameterError, "invalid role %q", s)
}

// Provider is the identity provider a user signed up with
type Provider string

const (
	ProviderGoogle Provider = "GOOGLE"
	ProviderApple  Provider = "APPLE"
	ProviderEmail  Provider = "EMAIL"
)

// ParseProvider parses a social provider name.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToUpper(strings.TrimSpace(s))); p {
	case ProviderGoogle, ProviderApple, ProviderEmail:
		return p, nil
	}
	return "", errors.Wrapf(BadParameterError, "invalid provider %q", s)
}

// WithdrawnDisplayName replaces the display name of withdrawn accounts.
const WithdrawnDisplayName = "탈퇴한 사용자"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User represents a user in the system
type User struct {
	meta.BaseResource `json:",inline"`

	// UID is the Firebase user id
	UID string `gorm:"size:128;not null;uniqueIndex" json:"uid"`

	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`

	// Password is the bcrypt hash, only set for email sign-ups
	Password string `gorm:"size:100" json:"-"`

	DisplayName   string     `gorm:"size:100" json:"displayName"`
	PlanID        uint       `json:"planId"`
	Plan          *Plan      `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Provider      Provider   `gorm:"size:20" json:"provider,omitempty"`
	Role          Role       `gorm:"size:20;not null" json:"role"`
	Active        bool       `gorm:"not null;default:true" json:"active"`
	PhotoURL      string     `gorm:"size:1024" json:"photoUrl,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserCreated is recorded when a user signs up
type UserCreated struct {
	meta.EventBase
	UID      string   `json:"uid"`
	Email    string   `json:"email"`
	Provider Provider `json:"provider"`
}

func (UserCreated) EventName() string { return "UserCreated" }

// UserPlanChanged is recorded when a user's plan changes
type UserPlanChanged struct {
	meta.EventBase
	UserID  uint     `json:"userId"`
	OldPlan PlanType `json:"oldPlan"`
	NewPlan PlanType `json:"newPlan"`
}

func (UserPlanChanged) EventName() string { return "UserPlanChanged" }

// SocialProfile is the identity information returned by the provider on sign-in.
type SocialProfile struct {
	UID           string
	Email         string
	DisplayName   string
	Provider      Provider
	PhotoURL      string
	EmailVerified bool
}

// NewSocialUser creates a user from a social sign-in on the given plan.
func NewSocialUser(profile SocialProfile, plan *Plan) *User {
	now := time.Now()
	u := &User{
		UID:           profile.UID,
		Email:         profile.Email,
		DisplayName:   profile.DisplayName,
		Provider:      profile.Provider,
		PhotoURL:      profile.PhotoURL,
		EmailVerified: profile.EmailVerified,
		Active:        true,
		LastLoginAt:   &now,
	}
	u.assignPlan(plan)
	u.RecordEvent(UserCreated{EventBase: meta.NewEventBase(), UID: u.UID, Email: u.Email, Provider: u.Provider})
	return u
}

// NewEmailUser creates an email/password user on the given plan.
func NewEmailUser(uid, email, password, displayName string, plan *Plan) (*User, error) {
	u := &User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		Provider:    ProviderEmail,
		Active:      true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	u.assignPlan(plan)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	u.RecordEvent(UserCreated{EventBase: meta.NewEventBase(), UID: u.UID, Email: u.Email, Provider: u.Provider})
	return u, nil
}

// Validate implements meta.ResourceValidator
func (u *User) Validate() error {
	if u.UID == "" {
		return errors.Wrap(BadParameterError, "uid is required")
	}
	if u.Email == "" {
		return errors.Wrap(BadParameterError, "email is required")
	}
	if !emailRegex.MatchString(u.Email) {
		return errors.Wrap(BadParameterError, "invalid email format")
	}
	return nil
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PlanType returns the type of the user's current plan, FREE when unknown.
func (u *User) PlanType() PlanType {
	if u.Plan == nil {
		return PlanFree
	}
	return u.Plan.Type
}

func (u *User) assignPlan(plan *Plan) {
	u.Plan = plan
	if plan != nil {
		u.PlanID = plan.ID
	}
	u.SyncRole()
}

// SyncRole derives the role from the plan. Admins keep their role.
func (u *User) SyncRole() {
	if u.IsAdmin() {
		return
	}
	u.Role = u.PlanType().Role()
}

// ChangePlan moves the user to a new plan and records UserPlanChanged.
func (u *User) ChangePlan(plan *Plan) {
	old := u.PlanType()
	u.assignPlan(plan)
	u.RecordEvent(UserPlanChanged{
		EventBase: meta.NewEventBase(),
		UserID:    u.ID,
		OldPlan:   old,
		NewPlan:   plan.Type,
	})
}

// UpdateSocialInfo refreshes the provider profile on a repeated sign-in.
// The email is fixed once the account exists.
func (u *User) UpdateSocialInfo(profile SocialProfile) {
	if profile.DisplayName != "" {
		u.DisplayName = profile.DisplayName
	}
	if profile.PhotoURL != "" {
		u.PhotoURL = profile.PhotoURL
	}
	if profile.Provider != "" {
		u.Provider = profile.Provider
	}
	u.EmailVerified = profile.EmailVerified
	u.TouchLogin()
}

// UpdateProfile applies user-editable fields; empty values are ignored.
func (u *User) UpdateProfile(displayName, photoURL string) {
	if displayName != "" {
		u.DisplayName = displayName
	}
	if photoURL != "" {
		u.PhotoURL = photoURL
	}
}

// TouchLogin sets the last login time to now.
func (u *User) TouchLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// Withdraw deactivates the account and strips its personal data.
func (u *User) Withdraw() error {
	if !u.Active {
		return ErrUserInactive
	}
	u.Active = false
	u.Email = fmt.Sprintf("withdrawn_%d_%d@withdrawn.com", u.ID, time.Now().UnixMilli())
	u.DisplayName = WithdrawnDisplayName
	u.Password = ""
	u.Provider = ""
	u.PhotoURL = ""
	u.EmailVerified = false
	u.LastLoginAt = nil
	return nil
}

func isHashedPassword(password string) bool {
	return strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$")
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return errors.Wrap(BadParameterError, "password must be at least 8 characters long")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the user's password
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// BeforeSave is a GORM hook that keeps passwords hashed at rest
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && !isHashedPassword(u.Password) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	if u.Role == "" {
		u.SyncRole()
	}
	return nil
}
