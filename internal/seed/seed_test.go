package seed

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"preview-api/apiv1"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, db.AutoMigrate(apiv1.AllModels()...))
	return db
}

func count[T any](t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(new(T)).Count(&n).Error)
	return n
}

func TestRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Run(ctx, db, log))

	assert.Equal(t, int64(3), count[apiv1.Plan](t, db))
	assert.Equal(t, int64(6), count[apiv1.JobField](t, db))
	assert.Equal(t, int64(6), count[apiv1.JobPosition](t, db))
	assert.Equal(t, int64(len(skillDefs)), count[apiv1.Skill](t, db))
	assert.Equal(t, int64(5), count[apiv1.ExperienceLevelInfo](t, db))
	assert.Equal(t, int64(6), count[apiv1.Interviewer](t, db))
	assert.Equal(t, int64(3), count[apiv1.LegalInfo](t, db))
	assert.Equal(t, int64(1), count[apiv1.ServiceStatusInfo](t, db))

	var links int64
	for _, d := range skillDefs {
		links += int64(len(d.positions))
	}
	assert.Equal(t, links, count[apiv1.JobPositionSkill](t, db))

	var pro apiv1.Plan
	require.NoError(t, db.Where("type = ?", apiv1.PlanPro).First(&pro).Error)
	assert.Equal(t, 19000, pro.MonthlyPrice)
	assert.Equal(t, 100000, pro.MonthlyTokenLimit)

	var backend apiv1.JobPosition
	require.NoError(t, db.Preload("Skills.Skill").Where("role = ?", apiv1.RoleBackendDeveloper).First(&backend).Error)
	assert.Len(t, backend.Skills, 4)

	var status apiv1.ServiceStatusInfo
	require.NoError(t, db.First(&status).Error)
	assert.Len(t, status.FAQ, 2)
	assert.Equal(t, []string{"ko", "en"}, status.SupportedLanguages)
}

func TestRun_KeepsExistingRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	custom := apiv1.Interviewer{Code: "custom", Name: "Custom", Personality: "FRIENDLY", Active: true}
	require.NoError(t, db.Create(&custom).Error)

	require.NoError(t, Run(ctx, db, log))
	require.NoError(t, Run(ctx, db, log))

	assert.Equal(t, int64(1), count[apiv1.Interviewer](t, db))
	assert.Equal(t, int64(3), count[apiv1.Plan](t, db))
	assert.Equal(t, int64(6), count[apiv1.JobField](t, db))
}
