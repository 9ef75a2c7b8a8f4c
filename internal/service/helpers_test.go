package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"preview-api/apiv1"
	"preview-api/internal/events"
	"preview-api/meta"
)

// setupTestDB creates a temp-dir SQLite database with every model migrated
func setupTestDB(t *testing.T) *gorm.DB {
	tmpDir, err := os.MkdirTemp("", "servicedb")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	db, err := gorm.Open(sqlite.Open(filepath.Join(tmpDir, "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(apiv1.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventRecorder collects every published event name
type eventRecorder struct {
	names []string
}

func newTestDispatcher() (*events.Dispatcher, *eventRecorder) {
	rec := &eventRecorder{}
	d := events.NewDispatcher(testLogger())
	d.SubscribeAll(func(_ context.Context, e meta.Event) error {
		rec.names = append(rec.names, e.EventName())
		return nil
	})
	return d, rec
}

// seedPlans stores the three standard plans
func seedPlans(t *testing.T, db *gorm.DB) map[apiv1.PlanType]*apiv1.Plan {
	plans := map[apiv1.PlanType]*apiv1.Plan{}
	for _, p := range []struct {
		t                      apiv1.PlanType
		name                   string
		monthly, annual, limit int
	}{
		{apiv1.PlanFree, "Free", 0, 0, 10000},
		{apiv1.PlanStandard, "Standard", 9900, 99000, 50000},
		{apiv1.PlanPro, "Pro", 19000, 190000, 100000},
	} {
		plan, err := apiv1.NewPlan(p.t, p.name, p.monthly, p.annual, p.limit)
		require.NoError(t, err)
		require.NoError(t, db.Create(plan).Error)
		plans[p.t] = plan
	}
	return plans
}

// services wires every service over one database
type services struct {
	db            *gorm.DB
	events        *eventRecorder
	plans         *PlanService
	usage         *UsageService
	subscriptions *SubscriptionService
	loginLogs     *LoginLogService
	users         *UserService
	eligibility   *EligibilityService
	interviews    *InterviewService
}

func newServices(t *testing.T) *services {
	db := setupTestDB(t)
	dispatcher, rec := newTestDispatcher()
	log := testLogger()

	s := &services{db: db, events: rec}
	s.plans = NewPlanService(db, dispatcher, log)
	s.usage = NewUsageService(db, log)
	s.subscriptions = NewSubscriptionService(db, dispatcher, log)
	s.loginLogs = NewLoginLogService(db, log)
	s.users = NewUserService(db, s.subscriptions, s.loginLogs, dispatcher, log)
	s.eligibility = NewEligibilityService(s.usage, log)
	s.interviews = NewInterviewService(db, log)
	return s
}

func testLoginInfo() apiv1.LoginInfo {
	return apiv1.LoginInfo{
		IP:         "10.0.0.1",
		UserAgent:  "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1",
		DeviceType: "Mobile",
		Browser:    "Safari",
		OS:         "iOS",
		LoginAt:    time.Now(),
	}
}

// signUp creates a user through social login and reloads it with its plan
func (s *services) signUp(t *testing.T, uid, email string) *apiv1.User {
	ctx := context.Background()
	_, _, err := s.users.SocialLogin(ctx, apiv1.SocialProfile{
		UID:         uid,
		Email:       email,
		DisplayName: uid,
		Provider:    apiv1.ProviderGoogle,
	}, testLoginInfo())
	require.NoError(t, err)
	user, err := s.users.GetByUID(ctx, uid)
	require.NoError(t, err)
	return user
}
