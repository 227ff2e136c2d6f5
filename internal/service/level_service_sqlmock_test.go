// internal/service/level_service_sqlmock_test.go
package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"
	"agape_study_api/internal/service"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func levelRows(id int64, active bool, position interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "titulo", "descricao", "xp_total", "ativo", "posicao", "usuario_id"}).
		AddRow(id, "B", "descricao", 120, active, position, nil)
}

// The reorder statement fails on the wire: the transaction must end in ROLLBACK, never COMMIT.
func TestLevelService_SetActive_SQLRollback(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		db, mock := setupMockDB(t)
		svc := service.NewLevelService(db, repository.NewGormLevelRepository(), repository.NewGormQuestionRepository())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "niveis" WHERE id = \$1`).
			WillReturnRows(levelRows(2, true, 2))
		mock.ExpectExec(`UPDATE "niveis" SET .*"ativo"=.*WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "niveis" SET "posicao"=posicao - 1 WHERE ativo = \$\d+ AND posicao > \$\d+`).
			WillReturnError(errors.New("connection reset by peer"))
		mock.ExpectRollback()

		_, err := svc.SetActive(context.Background(), 2, false, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransactionFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("activate", func(t *testing.T) {
		db, mock := setupMockDB(t)
		svc := service.NewLevelService(db, repository.NewGormLevelRepository(), repository.NewGormQuestionRepository())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "niveis" WHERE id = \$1`).
			WillReturnRows(levelRows(4, false, nil))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "niveis" WHERE ativo = \$1 AND posicao = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "niveis" SET "posicao"=posicao \+ 1 WHERE ativo = \$\d+ AND posicao >= \$\d+`).
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		_, err := svc.SetActive(context.Background(), 4, true, ptr(2))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransactionFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProgressService_SQLRollback(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := service.NewProgressService(db,
		repository.NewGormProgressRepository(),
		repository.NewGormLevelRepository(),
		repository.NewGormUserRepository(),
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "niveis" WHERE id = \$1`).
		WillReturnRows(levelRows(5, true, 1))
	mock.ExpectQuery(`SELECT \* FROM "ProgressoUsuario"`).
		WillReturnRows(sqlmock.NewRows([]string{"usuario_id", "nivel_id", "ordem", "xp_ganho", "concluido"}).AddRow(1, 5, 3, 10, true))
	mock.ExpectExec(`UPDATE "ProgressoUsuario" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "Usuarios" SET "xp_total"=xp_total \+ \$1`).
		WillReturnError(errors.New("canceling statement due to statement timeout"))
	mock.ExpectRollback()

	_, err := svc.RecordProgress(context.Background(), 1, &model.RecordProgressRequest{LevelID: 5, XPEarned: 10, Order: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}
