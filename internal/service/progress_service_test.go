// internal/service/progress_service_test.go
package service_test

import (
	"context"
	"math/rand"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type ProgressServiceTestSuite struct {
	suite.Suite

	db    *gorm.DB
	svc   service.ProgressService
	user  *model.User
	level *model.Level
	ctx   context.Context
}

func (s *ProgressServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.svc = service.NewProgressService(s.db,
		repository.NewGormProgressRepository(),
		repository.NewGormLevelRepository(),
		repository.NewGormUserRepository(),
	)
	s.user = seedUser(s.T(), s.db, "ana")
	s.level = seedLevel(s.T(), s.db, "Gênesis", ptr(1))
	s.ctx = context.Background()
}

func TestProgressService(t *testing.T) {
	suite.Run(t, new(ProgressServiceTestSuite))
}

func (s *ProgressServiceTestSuite) findEntry(order int) *model.ProgressEntry {
	var entry model.ProgressEntry
	err := s.db.Where("usuario_id = ? AND nivel_id = ? AND ordem = ?", s.user.ID, s.level.ID, order).First(&entry).Error
	s.Require().NoError(err)
	return &entry
}

func (s *ProgressServiceTestSuite) TestRepeatedStepAccumulates() {
	req := &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 10, Order: 3}

	first, err := s.svc.RecordProgress(s.ctx, s.user.ID, req)
	s.Require().NoError(err)
	s.Equal(10, first.XPEarned)
	s.Equal(3, first.Order)

	second, err := s.svc.RecordProgress(s.ctx, s.user.ID, req)
	s.Require().NoError(err)
	s.Equal(20, second.XPEarned)

	entry := s.findEntry(3)
	s.Equal(20, entry.XPEarned)
	s.True(entry.Completed)
	s.Equal(20, reloadUser(s.T(), s.db, s.user.ID).XPTotal)
}

func (s *ProgressServiceTestSuite) TestOrderBoundaries() {
	for _, order := range []int{0, 13, -1, 100} {
		result, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 10, Order: order})
		s.Require().Error(err, "ordem %d", order)
		s.ErrorIs(err, model.ErrInvalidInput, "ordem %d", order)
		s.Nil(result)
	}

	for _, order := range []int{1, 12} {
		_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 1, Order: order})
		s.NoError(err, "ordem %d", order)
	}

	var count int64
	s.Require().NoError(s.db.Model(&model.ProgressEntry{}).Count(&count).Error)
	s.EqualValues(2, count)
}

func (s *ProgressServiceTestSuite) TestOrderThirteenMessage() {
	_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 10, Order: 13})
	var appErr *model.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal("INVALID_ORDER", appErr.Code)
	s.Equal("Ordem deve estar entre 1 e 12.", appErr.Message)
}

func (s *ProgressServiceTestSuite) TestMissingParameters() {
	cases := []*model.RecordProgressRequest{
		{LevelID: 0, XPEarned: 10, Order: 1},
		{LevelID: s.level.ID, XPEarned: 0, Order: 1},
		nil,
	}
	for _, req := range cases {
		_, err := s.svc.RecordProgress(s.ctx, s.user.ID, req)
		s.ErrorIs(err, model.ErrInvalidInput)
	}
	s.Equal(0, reloadUser(s.T(), s.db, s.user.ID).XPTotal)
}

func (s *ProgressServiceTestSuite) TestUnknownLevel() {
	_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: 999, XPEarned: 10, Order: 1})
	s.ErrorIs(err, model.ErrNotFound)
	s.Equal(0, reloadUser(s.T(), s.db, s.user.ID).XPTotal)
}

func (s *ProgressServiceTestSuite) TestNegativeXPIsStoredButNotCredited() {
	_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 5, Order: 2})
	s.Require().NoError(err)

	result, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: -5, Order: 2})
	s.Require().NoError(err)
	s.Equal(0, result.XPEarned)

	entry := s.findEntry(2)
	s.Equal(0, entry.XPEarned)
	s.False(entry.Completed)
	s.Equal(5, reloadUser(s.T(), s.db, s.user.ID).XPTotal)
}

// xp_total always equals the sum of positive submitted XP.
func (s *ProgressServiceTestSuite) TestXPConservation() {
	other := seedLevel(s.T(), s.db, "Êxodo", ptr(2))
	levels := []int64{s.level.ID, other.ID}

	rng := rand.New(rand.NewSource(7))
	credited := 0
	for i := 0; i < 200; i++ {
		xp := rng.Intn(30) - 5
		if xp == 0 {
			xp = 1
		}
		req := &model.RecordProgressRequest{
			LevelID:  levels[rng.Intn(len(levels))],
			XPEarned: xp,
			Order:    rng.Intn(model.MaxStepOrder) + 1,
		}
		_, err := s.svc.RecordProgress(s.ctx, s.user.ID, req)
		s.Require().NoError(err, "call %d", i)
		if xp > 0 {
			credited += xp
		}
		s.Require().Equal(credited, reloadUser(s.T(), s.db, s.user.ID).XPTotal, "call %d", i)
	}
}

func (s *ProgressServiceTestSuite) TestButtonsAndDetailed() {
	for _, order := range []int{1, 2, 5} {
		_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 10, Order: order})
		s.Require().NoError(err)
	}

	buttons, err := s.svc.GetButtons(s.ctx, s.user.ID, s.level.ID)
	s.Require().NoError(err)
	s.Len(buttons, 3)
	s.Equal(model.ButtonProgress{Completed: true, XPEarned: 10}, buttons[5])

	counts, err := s.svc.GetCompletedByLevel(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal(map[int64]int{s.level.ID: 3}, counts)
}

func (s *ProgressServiceTestSuite) TestReconcileRewritesTotal() {
	for _, order := range []int{1, 2} {
		_, err := s.svc.RecordProgress(s.ctx, s.user.ID, &model.RecordProgressRequest{LevelID: s.level.ID, XPEarned: 15, Order: order})
		s.Require().NoError(err)
	}
	s.Require().NoError(s.db.Model(&model.User{}).Where("id_usuario = ?", s.user.ID).Update("xp_total", 999).Error)

	result, err := s.svc.Reconcile(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal(30, result.XPTotal)
	s.Equal(2, result.Levels[s.level.ID].Completed)
	s.Equal(30, reloadUser(s.T(), s.db, s.user.ID).XPTotal)
}

// failingUserRepository fails the XP credit after the progress row was written.
type failingUserRepository struct {
	repository.UserRepository
}

func (r *failingUserRepository) IncrementXP(ctx context.Context, tx *gorm.DB, id int64, delta int) error {
	return errInjected
}

func TestProgressService_RollsBackWhenCreditFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "bia")
	level := seedLevel(t, db, "Salmos", ptr(1))
	svc := service.NewProgressService(db,
		repository.NewGormProgressRepository(),
		repository.NewGormLevelRepository(),
		&failingUserRepository{UserRepository: repository.NewGormUserRepository()},
	)
	levelsBefore := snapshotLevels(t, db)

	result, err := svc.RecordProgress(context.Background(), user.ID, &model.RecordProgressRequest{LevelID: level.ID, XPEarned: 10, Order: 4})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)

	var entries int64
	require.NoError(t, db.Model(&model.ProgressEntry{}).Count(&entries).Error)
	assert.Zero(t, entries, "progress row must be rolled back")
	assert.Equal(t, 0, reloadUser(t, db, user.ID).XPTotal)
	assert.Equal(t, levelsBefore, snapshotLevels(t, db))
}

// racingProgressRepository behaves as if another request inserted the same step first.
type racingProgressRepository struct {
	repository.ProgressRepository
}

func (r *racingProgressRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error {
	return model.ErrConflict
}

func TestProgressService_ConcurrentInsertIsServerError(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "caio")
	level := seedLevel(t, db, "Provérbios", ptr(1))
	svc := service.NewProgressService(db,
		&racingProgressRepository{ProgressRepository: repository.NewGormProgressRepository()},
		repository.NewGormLevelRepository(),
		repository.NewGormUserRepository(),
	)

	_, err := svc.RecordProgress(context.Background(), user.ID, &model.RecordProgressRequest{LevelID: level.ID, XPEarned: 10, Order: 2})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)
	assert.Equal(t, http.StatusInternalServerError, webutil.MapErrorToStatusCode(err))
	assert.Equal(t, 0, reloadUser(t, db, user.ID).XPTotal)
}
