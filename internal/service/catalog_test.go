package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"preview-api/apiv1"
)

func intPtr(v int) *int { return &v }

func seedCatalog(t *testing.T, db *gorm.DB) *apiv1.JobField {
	dev := &apiv1.JobField{Code: "DEV", Name: "개발", NameEn: "Development", Active: true, SortOrder: 2}
	design := &apiv1.JobField{Code: "DESIGN", Name: "디자인", NameEn: "Design", Active: true, SortOrder: 1}
	retired := &apiv1.JobField{Code: "OLD", Name: "old", Active: true, SortOrder: 3}
	require.NoError(t, db.Create([]*apiv1.JobField{dev, design, retired}).Error)
	require.NoError(t, db.Model(retired).UpdateColumn("active", false).Error)

	golang := &apiv1.Skill{Name: "Go", NameEn: "Go", PrimaryJobRole: apiv1.RoleBackendDeveloper, Popular: true}
	react := &apiv1.Skill{Name: "React", NameEn: "React", PrimaryJobRole: apiv1.RoleFrontendDeveloper}
	require.NoError(t, db.Create([]*apiv1.Skill{golang, react}).Error)

	backend := &apiv1.JobPosition{JobFieldID: dev.ID, Role: apiv1.RoleBackendDeveloper, Title: "백엔드", TitleEn: "Backend", Active: true, SortOrder: 1}
	hidden := &apiv1.JobPosition{JobFieldID: dev.ID, Role: apiv1.RoleQAEngineer, Title: "QA", Active: true, SortOrder: 2}
	require.NoError(t, db.Create([]*apiv1.JobPosition{backend, hidden}).Error)
	require.NoError(t, db.Model(hidden).UpdateColumn("active", false).Error)
	require.NoError(t, db.Create(&apiv1.JobPositionSkill{JobPositionID: backend.ID, SkillID: golang.ID, Importance: 9}).Error)

	levels := []*apiv1.ExperienceLevelInfo{
		{Code: "ENTRY", DisplayName: "신입", Active: true, SortOrder: 1, MinYears: 0, MaxYears: intPtr(0)},
		{Code: "JUNIOR", DisplayName: "주니어", Active: true, SortOrder: 2, MinYears: 1, MaxYears: intPtr(3)},
		{Code: "SENIOR", DisplayName: "시니어", Active: true, SortOrder: 3, MinYears: 8},
	}
	require.NoError(t, db.Create(levels).Error)

	interviewers := []*apiv1.Interviewer{
		{Code: "KIND", Name: "친절한 면접관", Personality: "FRIENDLY", Active: true, SortOrder: 1},
		{Code: "HARD", Name: "압박 면접관", Personality: "STRICT", Active: true, SortOrder: 2},
	}
	require.NoError(t, db.Create(interviewers).Error)
	return dev
}

func TestCatalogService_JobFields(t *testing.T) {
	db := setupTestDB(t)
	dev := seedCatalog(t, db)
	svc := NewCatalogService(db)
	ctx := context.Background()

	fields, err := svc.JobFields(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "DESIGN", fields[0].Code)

	withPositions, err := svc.JobFieldWithPositions(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, withPositions.Positions, 1)
	require.Len(t, withPositions.Positions[0].Skills, 1)
	assert.Equal(t, "Go", withPositions.Positions[0].Skills[0].Skill.Name)

	byCode, err := svc.JobFieldByCode(ctx, "DEV")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, byCode.ID)

	_, err = svc.JobField(ctx, 999)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))

	positions, err := svc.PositionsByField(ctx, dev.ID)
	require.NoError(t, err)
	assert.Len(t, positions, 1)
}

func TestCatalogService_ExperienceLevels(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)
	ctx := context.Background()

	for years, want := range map[int]string{0: "ENTRY", 2: "JUNIOR", 20: "SENIOR"} {
		level, err := svc.ExperienceLevelByYears(ctx, years)
		require.NoError(t, err)
		assert.Equal(t, want, string(level.Code), "%d years", years)
	}
	_, err := svc.ExperienceLevelByYears(ctx, 5)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))
	_, err = svc.ExperienceLevelByYears(ctx, -1)
	assert.True(t, errors.Is(err, apiv1.BadParameterError))

	level, err := svc.ExperienceLevelByCode(ctx, "JUNIOR")
	require.NoError(t, err)
	assert.Equal(t, "주니어", level.DisplayName)
}

func TestCatalogService_InterviewersAndSkills(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)
	ctx := context.Background()

	strict, err := svc.InterviewersByPersonality(ctx, apiv1.InterviewerPersonality("STRICT"))
	require.NoError(t, err)
	require.Len(t, strict, 1)
	assert.Equal(t, "HARD", strict[0].Code)

	all, err := svc.Interviewers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.InterviewerByCode(ctx, "NOPE")
	assert.True(t, errors.Is(err, apiv1.NotFoundError))

	popular, err := svc.PopularSkills(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "Go", popular[0].Name)

	frontend, err := svc.SkillsByJobRole(ctx, apiv1.RoleFrontendDeveloper)
	require.NoError(t, err)
	require.Len(t, frontend, 1)
	assert.Equal(t, "React", frontend[0].Name)
}

func TestAppInfoService(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppInfoService(db)
	ctx := context.Background()

	_, err := svc.Info(ctx)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))

	now := time.Now()
	expired := now.Add(-time.Hour)
	require.NoError(t, db.Create(&apiv1.AppInfo{Name: "Preview", Version: "1.1.0"}).Error)
	require.NoError(t, db.Create(&apiv1.CompanyInfo{Name: "Evawova"}).Error)
	require.NoError(t, db.Create(&apiv1.ServiceStatusInfo{
		Status:             apiv1.StatusNormal,
		EmergencyNotice:    "maintenance finished",
		NoticeExpiresAt:    &expired,
		Notices:            []string{"welcome"},
		FAQ:                map[string]string{"How do I start?": "Pick a role."},
		SupportedLanguages: []string{"ko", "en"},
	}).Error)
	require.NoError(t, db.Create([]*apiv1.LegalInfo{
		{Type: apiv1.LegalTerms, Title: "Terms", Version: "1.0", EffectiveDate: now.AddDate(0, -2, 0)},
		{Type: apiv1.LegalTerms, Title: "Terms", Version: "1.1", EffectiveDate: now.AddDate(0, -1, 0)},
		{Type: apiv1.LegalTerms, Title: "Terms", Version: "2.0", EffectiveDate: now.AddDate(0, 1, 0)},
		{Type: apiv1.LegalPrivacy, Title: "Privacy", Version: "1.0", EffectiveDate: now.AddDate(0, -1, 0)},
	}).Error)

	view, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", view.App.Version)
	assert.Equal(t, "Evawova", view.Company.Name)
	assert.Empty(t, view.EmergencyNotice, "expired notices are hidden")
	assert.Equal(t, []string{"welcome"}, view.Notices)
	assert.Equal(t, map[apiv1.LegalType]string{apiv1.LegalTerms: "1.1", apiv1.LegalPrivacy: "1.0"}, view.LegalVersions)

	terms, err := svc.Legal(ctx, apiv1.LegalTerms)
	require.NoError(t, err)
	assert.Equal(t, "1.1", terms.Version)
	_, err = svc.Legal(ctx, apiv1.LegalMarketing)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))

	faq, err := svc.FAQ(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pick a role.", faq["How do I start?"])

	until := now.Add(time.Hour)
	status, err := svc.UpdateStatus(ctx, apiv1.StatusMaintenance, "back soon", &until)
	require.NoError(t, err)
	assert.Equal(t, apiv1.StatusMaintenance, status.Status)
	current, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "back soon", current.EmergencyNotice)

	_, err = svc.UpdateStatus(ctx, "BROKEN", "", nil)
	assert.True(t, errors.Is(err, apiv1.BadParameterError))
}

func TestPreferenceService(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPreferenceService(db, testLogger())
	ctx := context.Background()

	pref, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "dark", pref.Theme)
	assert.Zero(t, pref.ID, "defaults are not stored until changed")

	light, off := "light", false
	pref, err = svc.Update(ctx, 7, PreferenceUpdate{Theme: &light, Notifications: &off})
	require.NoError(t, err)
	assert.NotZero(t, pref.ID)

	pref, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "light", pref.Theme)
	assert.False(t, pref.Notifications)
	assert.True(t, pref.AutoSave)
	assert.Equal(t, "ko", pref.Language)

	advanced, err := svc.UpdateAdvanced(ctx, 7, map[string]any{"customWebhooks": true, "apiIntegrations": nil, "depth": 3})
	require.NoError(t, err)
	assert.Equal(t, true, advanced["customWebhooks"])
	assert.NotContains(t, advanced, "apiIntegrations")

	advanced, err = svc.Advanced(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, float64(3), advanced["depth"])

	other, err := svc.Get(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "dark", other.Theme)
}

func TestAnalysisAndAdmin(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	s.signUp(t, "uid-2", "bob@example.com")

	for _, role := range []apiv1.JobRole{apiv1.RoleBackendDeveloper, apiv1.RoleBackendDeveloper, apiv1.RoleFrontendDeveloper} {
		settings := apiv1.DefaultInterviewSettings()
		settings.JobRole = role
		session, err := s.interviews.Start(ctx, user.ID, settings)
		require.NoError(t, err)
		ended := session.StartedAt.Add(20 * time.Minute)
		session.EndedAt = &ended
		require.NoError(t, s.db.Save(session).Error)
	}
	_, err := s.interviews.Start(ctx, user.ID, apiv1.DefaultInterviewSettings())
	require.NoError(t, err)

	_, err = s.usage.Record(ctx, user.ID, 300, apiv1.UsageInterviewStart, "")
	require.NoError(t, err)
	_, err = s.usage.Record(ctx, user.ID, 200, apiv1.UsageInterviewContinue, "")
	require.NoError(t, err)

	analysis := NewAnalysisService(s.db, s.usage)

	basic, err := analysis.Basic(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), basic.SessionCount)
	assert.Equal(t, 3, basic.CompletedCount)
	assert.Equal(t, 60, basic.TotalMinutes)

	advanced, err := analysis.Advanced(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, advanced.AverageDurationMinutes, 0.001)
	assert.Equal(t, 500, advanced.TokensThisMonth)
	assert.Equal(t, 300, advanced.UsageByType[apiv1.UsageInterviewStart])

	premium, err := analysis.Premium(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, premium.DailyTokens, trendDays)
	assert.Equal(t, 500, premium.DailyTokens[time.Now().Format(time.DateOnly)])
	require.Len(t, premium.TopJobRoles, 2)
	assert.Equal(t, apiv1.RoleBackendDeveloper, premium.TopJobRoles[0].JobRole)
	assert.Equal(t, 3, premium.TopJobRoles[0].Count)

	admin := NewAdminService(s.users, s.subscriptions, s.usage, s.interviews, s.loginLogs)
	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.UsersByRole[apiv1.RoleFree])
	assert.Equal(t, 500, stats.TokensUsedToday)
	assert.Equal(t, int64(2), stats.ActiveSubscriptions)
	assert.Equal(t, int64(4), stats.SessionsToday)

	activities, err := admin.UserActivities(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}
