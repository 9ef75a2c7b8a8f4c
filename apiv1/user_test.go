package apiv1

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(AllModels()...)
	require.NoError(t, err)

	var tables []string
	err = db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables).Error
	require.NoError(t, err)
	assert.Contains(t, tables, "users")
	assert.Contains(t, tables, "plans")

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testPlan(t *testing.T, planType PlanType) *Plan {
	var p *Plan
	var err error
	switch planType {
	case PlanFree:
		p, err = NewPlan(PlanFree, "Free", 0, 0, 10000)
	case PlanStandard:
		p, err = NewPlan(PlanStandard, "Standard", 9900, 99000, 50000)
	default:
		p, err = NewPlan(PlanPro, "Pro", 19000, 190000, 100000)
	}
	require.NoError(t, err)
	return p
}

func googleProfile() SocialProfile {
	return SocialProfile{
		UID:           "firebase-uid-1",
		Email:         "jane@example.com",
		DisplayName:   "Jane",
		Provider:      ProviderGoogle,
		PhotoURL:      "https://example.com/jane.png",
		EmailVerified: true,
	}
}

func TestUser_SocialCreation(t *testing.T) {
	db := setupTestDB(t)
	free := testPlan(t, PlanFree)
	require.NoError(t, db.Create(free).Error)

	user := NewSocialUser(googleProfile(), free)
	require.NoError(t, db.Create(user).Error)

	assert.NotZero(t, user.ID)
	assert.Equal(t, RoleFree, user.Role)
	assert.Equal(t, free.ID, user.PlanID)
	assert.True(t, user.Active)
	assert.NotNil(t, user.LastLoginAt)

	events := user.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "UserCreated", events[0].EventName())
}

func TestUser_EmailRegistrationHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	free := testPlan(t, PlanFree)
	require.NoError(t, db.Create(free).Error)

	user, err := NewEmailUser("uid-email", "bob@example.com", "password123", "Bob", free)
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)

	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2a$"))
	assert.True(t, user.CheckPassword("password123"))
	assert.False(t, user.CheckPassword("wrongpassword"))
	assert.Equal(t, ProviderEmail, user.Provider)
}

func TestUser_Validation(t *testing.T) {
	free := testPlan(t, PlanFree)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"valid", "ok@example.com", "password123", ""},
		{"invalid email", "not-an-email", "password123", "invalid email format"},
		{"empty email", "", "password123", "email is required"},
		{"short password", "ok@example.com", "short", "at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmailUser("uid", tt.email, tt.password, "name", free)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, BadParameterError))
		})
	}
}

func TestUser_UniqueEmail(t *testing.T) {
	db := setupTestDB(t)
	free := testPlan(t, PlanFree)
	require.NoError(t, db.Create(free).Error)

	require.NoError(t, db.Create(NewSocialUser(googleProfile(), free)).Error)

	dup := googleProfile()
	dup.UID = "another-uid"
	assert.Error(t, db.Create(NewSocialUser(dup, free)).Error)
}

func TestUser_ChangePlanDerivesRole(t *testing.T) {
	free := testPlan(t, PlanFree)
	pro := testPlan(t, PlanPro)

	user := NewSocialUser(googleProfile(), free)
	user.PullEvents()

	user.ChangePlan(pro)
	assert.Equal(t, RolePro, user.Role)
	assert.Equal(t, PlanPro, user.PlanType())

	events := user.PullEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(UserPlanChanged)
	require.True(t, ok)
	assert.Equal(t, PlanFree, changed.OldPlan)
	assert.Equal(t, PlanPro, changed.NewPlan)

	admin := NewSocialUser(googleProfile(), free)
	admin.Role = RoleAdmin
	admin.ChangePlan(pro)
	assert.Equal(t, RoleAdmin, admin.Role)
}

func TestUser_UpdateSocialInfo(t *testing.T) {
	user := NewSocialUser(googleProfile(), testPlan(t, PlanFree))
	user.LastLoginAt = nil

	user.UpdateSocialInfo(SocialProfile{DisplayName: "Jane D", Email: "someone-else@example.com", EmailVerified: false})
	assert.Equal(t, "Jane D", user.DisplayName)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_Withdraw(t *testing.T) {
	user := NewSocialUser(googleProfile(), testPlan(t, PlanFree))
	user.ID = 42

	require.NoError(t, user.Withdraw())
	assert.False(t, user.Active)
	assert.True(t, strings.HasPrefix(user.Email, "withdrawn_42_"))
	assert.True(t, strings.HasSuffix(user.Email, "@withdrawn.com"))
	assert.Equal(t, WithdrawnDisplayName, user.DisplayName)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.PhotoURL)
	assert.Empty(t, user.Provider)
	assert.False(t, user.EmailVerified)
	assert.Nil(t, user.LastLoginAt)

	err := user.Withdraw()
	assert.True(t, errors.Is(err, ErrUserInactive))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ROLE_USER_PRO")
	require.NoError(t, err)
	assert.Equal(t, RolePro, r)

	r, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.True(t, errors.Is(err, BadParameterError))
}
