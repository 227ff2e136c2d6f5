package repository_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Level{}, &model.Question{}, &model.ProgressEntry{}))
	return db
}

func createLevel(t *testing.T, db *gorm.DB, title string, position *int) *model.Level {
	t.Helper()
	level := &model.Level{Title: title, Description: title, XPTotal: 100, Active: position != nil, Position: position}
	require.NoError(t, db.Create(level).Error)
	return level
}

func positionOf(t *testing.T, db *gorm.DB, id int64) *int {
	t.Helper()
	var level model.Level
	require.NoError(t, db.First(&level, "id = ?", id).Error)
	return level.Position
}

func intPtr(v int) *int { return &v }

func TestLevelRepository_Shifts(t *testing.T) {
	db := setupSQLite(t)
	repo := repository.NewGormLevelRepository()
	ctx := context.Background()

	a := createLevel(t, db, "A", intPtr(1))
	b := createLevel(t, db, "B", intPtr(2))
	c := createLevel(t, db, "C", intPtr(3))
	inactive := createLevel(t, db, "X", nil)

	require.NoError(t, repo.ShiftUpFrom(ctx, db, 2))
	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 3, *positionOf(t, db, b.ID))
	assert.Equal(t, 4, *positionOf(t, db, c.ID))
	assert.Nil(t, positionOf(t, db, inactive.ID))

	occupied, err := repo.ExistsActiveAtPosition(ctx, db, 2)
	require.NoError(t, err)
	assert.False(t, occupied)

	require.NoError(t, repo.ShiftDownAfter(ctx, db, 2))
	assert.Equal(t, 2, *positionOf(t, db, b.ID))
	assert.Equal(t, 3, *positionOf(t, db, c.ID))

	count, err := repo.CountActive(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestLevelRepository_SetActivation(t *testing.T) {
	db := setupSQLite(t)
	repo := repository.NewGormLevelRepository()
	ctx := context.Background()
	level := createLevel(t, db, "A", intPtr(1))

	require.NoError(t, repo.SetActivation(ctx, db, level.ID, false, nil))
	assert.Nil(t, positionOf(t, db, level.ID))

	require.NoError(t, repo.SetActivation(ctx, db, level.ID, true, intPtr(4)))
	assert.Equal(t, 4, *positionOf(t, db, level.ID))

	assert.ErrorIs(t, repo.SetActivation(ctx, db, level.ID+10, true, intPtr(1)), model.ErrNotFound)
}

func TestLevelRepository_SearchAndActive(t *testing.T) {
	db := setupSQLite(t)
	repo := repository.NewGormLevelRepository()
	ctx := context.Background()
	genesis := createLevel(t, db, "Gênesis", intPtr(2))
	createLevel(t, db, "Êxodo", intPtr(1))
	createLevel(t, db, "Levítico", nil)

	byID, err := repo.Search(ctx, db, fmt.Sprint(genesis.ID))
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, genesis.ID, byID[0].ID)

	all, err := repo.Search(ctx, db, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.FindActive(ctx, db)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Êxodo", active[0].Title)
	assert.Equal(t, "Gênesis", active[1].Title)

	_, err = repo.FindByID(ctx, db, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProgressRepository_Summaries(t *testing.T) {
	db := setupSQLite(t)
	repo := repository.NewGormProgressRepository()
	ctx := context.Background()

	user := &model.User{Name: "ana", Email: "ana@example.com", PasswordHash: "x", Role: model.RoleUser, CurrentStage: 1}
	require.NoError(t, db.Create(user).Error)
	l1 := createLevel(t, db, "A", intPtr(1))
	l2 := createLevel(t, db, "B", intPtr(2))

	for _, e := range []*model.ProgressEntry{
		{UserID: user.ID, LevelID: l1.ID, Order: 1, XPEarned: 10, Completed: true},
		{UserID: user.ID, LevelID: l1.ID, Order: 2, XPEarned: 20, Completed: true},
		{UserID: user.ID, LevelID: l2.ID, Order: 1, XPEarned: 5, Completed: true},
	} {
		require.NoError(t, repo.Create(ctx, db, e))
	}

	counts, err := repo.CountCompletedByLevel(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{l1.ID: 2, l2.ID: 1}, counts)

	summary, err := repo.SummarizeCompleted(ctx, db, user.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, 30, summary[0].XPTotal)
	assert.Equal(t, 5, summary[1].XPTotal)

	entry, err := repo.Find(ctx, db, user.ID, l1.ID, 2)
	require.NoError(t, err)
	entry.XPEarned = 40
	require.NoError(t, repo.Update(ctx, db, entry))

	reloaded, err := repo.Find(ctx, db, user.ID, l1.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 40, reloaded.XPEarned)

	_, err = repo.Find(ctx, db, user.ID, l1.ID, 12)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_IncrementXP(t *testing.T) {
	db := setupSQLite(t)
	repo := repository.NewGormUserRepository()
	ctx := context.Background()

	user := &model.User{Name: "ana", Email: "ana@example.com", PasswordHash: "x", Role: model.RoleUser, CurrentStage: 1}
	require.NoError(t, repo.Create(ctx, db, user))

	require.NoError(t, repo.IncrementXP(ctx, db, user.ID, 15))
	require.NoError(t, repo.IncrementXP(ctx, db, user.ID, 5))
	found, err := repo.FindByID(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, found.XPTotal)

	require.NoError(t, repo.SetXPTotal(ctx, db, user.ID, 3))
	found, err = repo.FindByEmail(ctx, db, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, found.XPTotal)

	assert.ErrorIs(t, repo.IncrementXP(ctx, db, user.ID+1, 1), model.ErrNotFound)
}

func TestUserRepository_CreateMapsUniqueViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "Usuarios"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err = repository.NewGormUserRepository().Create(context.Background(), db, &model.User{
		Name: "ana", Email: "ana@example.com", PasswordHash: "x", Role: model.RoleUser, CurrentStage: 1,
	})
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
