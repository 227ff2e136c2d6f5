// internal/service/store_test.go
package service_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agape_study_api/internal/model"
)

// setupTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement of a transaction on the same handle.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Level{},
		&model.Question{},
		&model.ProgressEntry{},
		&model.Annotation{},
		&model.DailyMessage{},
		&model.Friendship{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		Role:         model.RoleUser,
		CurrentStage: 1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedLevel(t *testing.T, db *gorm.DB, title string, position *int) *model.Level {
	t.Helper()
	level := &model.Level{
		Title:       title,
		Description: "descricao " + title,
		XPTotal:     120,
		Active:      position != nil,
		Position:    position,
	}
	require.NoError(t, db.Create(level).Error)
	return level
}

func reloadLevel(t *testing.T, db *gorm.DB, id int64) *model.Level {
	t.Helper()
	var level model.Level
	require.NoError(t, db.First(&level, "id = ?", id).Error)
	return &level
}

func reloadUser(t *testing.T, db *gorm.DB, id int64) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, db.First(&user, "id_usuario = ?", id).Error)
	return &user
}

func ptr(v int) *int {
	return &v
}
