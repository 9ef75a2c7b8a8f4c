package internal

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"preview-api/apiv1"
)

func TestDAO_CRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dao := NewDAO[apiv1.Skill](db)

	skill := &apiv1.Skill{Name: "Go", NameEn: "Go", PrimaryJobRole: apiv1.RoleBackendDeveloper}
	require.NoError(t, dao.Create(ctx, skill))
	assert.NotZero(t, skill.ID)
	assert.Equal(t, 1, skill.ResourceVersion)

	found, err := dao.Get(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Name)

	found.Popular = true
	require.NoError(t, dao.Save(ctx, found))
	assert.Equal(t, 2, found.ResourceVersion)

	found, err = dao.First(ctx, Where("name = ?", "Go"))
	require.NoError(t, err)
	assert.True(t, found.Popular)

	require.NoError(t, dao.Update(ctx, skill.ID, &apiv1.Skill{NameEn: "Golang"}))
	found, err = dao.Get(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golang", found.NameEn)

	require.NoError(t, dao.Delete(ctx, skill.ID))

	_, err = dao.Get(ctx, skill.ID)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))

	err = dao.Delete(ctx, skill.ID)
	assert.True(t, errors.Is(err, apiv1.NotFoundError))
}

func TestDAO_Conflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dao := NewDAO[apiv1.Skill](db)

	require.NoError(t, dao.Create(ctx, &apiv1.Skill{Name: "Go"}))
	err := dao.Create(ctx, &apiv1.Skill{Name: "Go"})
	assert.True(t, errors.Is(err, apiv1.ConflictError))
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestDAO_List(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dao := NewDAO[apiv1.Skill](db)

	for i := 0; i < 5; i++ {
		skill := &apiv1.Skill{Name: fmt.Sprintf("skill%d", i), Popular: i%2 == 0}
		require.NoError(t, dao.Create(ctx, skill))
	}

	items, total, err := dao.List(ctx, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)

	items, total, err = dao.List(ctx, 3, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 1)

	items, total, err = dao.List(ctx, 1, 10, map[string]any{"popular": true}, OrderBy("name desc"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, "skill4", items[0].Name)

	count, err := dao.Count(ctx, Where("popular = ?", false))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := dao.Find(ctx, OrderBy("name"))
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDAO_Transaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dao := NewDAO[apiv1.Skill](db)

	err := dao.Transaction(ctx, func(tx *gorm.DB) error {
		if err := dao.WithTx(tx).Create(ctx, &apiv1.Skill{Name: "rolled back"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.Error(t, err)

	count, err := dao.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDAO_Preload(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	field := &apiv1.JobField{Code: "DEVELOPMENT", Name: "개발", Active: true}
	require.NoError(t, NewDAO[apiv1.JobField](db).Create(ctx, field))
	position := &apiv1.JobPosition{JobFieldID: field.ID, Role: apiv1.RoleBackendDeveloper, Title: "Backend", Active: true}
	require.NoError(t, NewDAO[apiv1.JobPosition](db).Create(ctx, position))

	found, err := NewDAO[apiv1.JobField](db).Get(ctx, field.ID, Preload("Positions"))
	require.NoError(t, err)
	require.Len(t, found.Positions, 1)
	assert.Equal(t, "Backend", found.Positions[0].Title)
}
