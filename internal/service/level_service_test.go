// internal/service/level_service_test.go
package service_test

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

func newLevelService(db *gorm.DB) service.LevelService {
	return service.NewLevelService(db, repository.NewGormLevelRepository(), repository.NewGormQuestionRepository())
}

// assertDense checks that active positions are exactly 1..N and inactive ones are NULL.
func assertDense(t *testing.T, db *gorm.DB) {
	t.Helper()
	var levels []model.Level
	require.NoError(t, db.Order("id").Find(&levels).Error)

	var positions []int
	for _, l := range levels {
		if !l.Active {
			assert.Nil(t, l.Position, "inactive level %d must have NULL posicao", l.ID)
			continue
		}
		require.NotNil(t, l.Position, "active level %d must have a posicao", l.ID)
		positions = append(positions, *l.Position)
	}
	sort.Ints(positions)
	for i, p := range positions {
		assert.Equal(t, i+1, p, "active positions must be 1..N, got %v", positions)
	}
}

func positionOf(t *testing.T, db *gorm.DB, id int64) *int {
	t.Helper()
	return reloadLevel(t, db, id).Position
}

func TestLevelService_SetActive_FirstActivation(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	level := seedLevel(t, db, "Gênesis", nil)

	result, err := svc.SetActive(context.Background(), level.ID, true, ptr(1))
	require.NoError(t, err)
	assert.True(t, result.Active)
	require.NotNil(t, result.Position)
	assert.Equal(t, 1, *result.Position)
	assert.Equal(t, "Nível ativado com sucesso na posição 1!", result.Message)

	stored := reloadLevel(t, db, level.ID)
	assert.True(t, stored.Active)
	require.NotNil(t, stored.Position)
	assert.Equal(t, 1, *stored.Position)
	assertDense(t, db)
}

func TestLevelService_SetActive_DeactivateMiddle(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", ptr(2))
	c := seedLevel(t, db, "C", ptr(3))

	result, err := svc.SetActive(context.Background(), b.ID, false, nil)
	require.NoError(t, err)
	assert.False(t, result.Active)
	assert.Equal(t, "Nível desativado com sucesso! Os níveis subsequentes foram reordenados.", result.Message)

	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 2, *positionOf(t, db, c.ID))
	storedB := reloadLevel(t, db, b.ID)
	assert.False(t, storedB.Active)
	assert.Nil(t, storedB.Position)
	assertDense(t, db)
}

func TestLevelService_SetActive_InsertShiftsFollowers(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	c := seedLevel(t, db, "C", ptr(2))
	d := seedLevel(t, db, "D", nil)

	result, err := svc.SetActive(context.Background(), d.ID, true, ptr(2))
	require.NoError(t, err)
	assert.Equal(t, 2, *result.Position)

	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 2, *positionOf(t, db, d.ID))
	assert.Equal(t, 3, *positionOf(t, db, c.ID))
	assertDense(t, db)
}

func TestLevelService_SetActive_AppendAtEnd(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", nil)

	_, err := svc.SetActive(context.Background(), b.ID, true, ptr(2))
	require.NoError(t, err)

	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 2, *positionOf(t, db, b.ID))
	assertDense(t, db)
}

func TestLevelService_SetActive_MoveActiveLevel(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", ptr(2))
	c := seedLevel(t, db, "C", ptr(3))
	d := seedLevel(t, db, "D", ptr(4))

	_, err := svc.SetActive(context.Background(), d.ID, true, ptr(1))
	require.NoError(t, err)
	assert.Equal(t, 1, *positionOf(t, db, d.ID))
	assert.Equal(t, 2, *positionOf(t, db, a.ID))
	assert.Equal(t, 3, *positionOf(t, db, b.ID))
	assert.Equal(t, 4, *positionOf(t, db, c.ID))
	assertDense(t, db)

	_, err = svc.SetActive(context.Background(), d.ID, true, ptr(3))
	require.NoError(t, err)
	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 2, *positionOf(t, db, b.ID))
	assert.Equal(t, 3, *positionOf(t, db, d.ID))
	assert.Equal(t, 4, *positionOf(t, db, c.ID))
	assertDense(t, db)
}

// Moving an active level to N, the last slot once its own slot is released, keeps 1..N.
func TestLevelService_SetActive_MoveToLastSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", ptr(2))
	c := seedLevel(t, db, "C", ptr(3))

	result, err := svc.SetActive(context.Background(), a.ID, true, ptr(3))
	require.NoError(t, err)
	assert.Equal(t, 3, *result.Position)
	assert.Equal(t, 1, *positionOf(t, db, b.ID))
	assert.Equal(t, 2, *positionOf(t, db, c.ID))
	assert.Equal(t, 3, *positionOf(t, db, a.ID))
	assertDense(t, db)
}

func TestLevelService_SetActive_NoOps(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", ptr(2))
	off := seedLevel(t, db, "Off", nil)

	t.Run("deactivate an inactive level", func(t *testing.T) {
		result, err := svc.SetActive(context.Background(), off.ID, false, nil)
		require.NoError(t, err)
		assert.Equal(t, "Nível já está desativado.", result.Message)
		assert.Nil(t, positionOf(t, db, off.ID))
		assert.Equal(t, 1, *positionOf(t, db, a.ID))
		assert.Equal(t, 2, *positionOf(t, db, b.ID))
	})

	t.Run("activate at the current position", func(t *testing.T) {
		result, err := svc.SetActive(context.Background(), b.ID, true, ptr(2))
		require.NoError(t, err)
		assert.Equal(t, 2, *result.Position)
		assert.Equal(t, 1, *positionOf(t, db, a.ID))
		assert.Equal(t, 2, *positionOf(t, db, b.ID))
	})

	assertDense(t, db)
}

func TestLevelService_SetActive_InvalidInput(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	level := seedLevel(t, db, "A", nil)

	tests := []struct {
		name     string
		id       int64
		position *int
		wantErr  error
	}{
		{name: "missing position", id: level.ID, position: nil, wantErr: model.ErrInvalidInput},
		{name: "zero position", id: level.ID, position: ptr(0), wantErr: model.ErrInvalidInput},
		{name: "negative position", id: level.ID, position: ptr(-3), wantErr: model.ErrInvalidInput},
		{name: "invalid position is checked before existence", id: 9999, position: ptr(0), wantErr: model.ErrInvalidInput},
		{name: "unknown level", id: 9999, position: ptr(1), wantErr: model.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.SetActive(context.Background(), tc.id, true, tc.position)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, result)
		})
	}

	_, err := svc.SetActive(context.Background(), 9999, false, nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, reloadLevel(t, db, level.ID).Active)
}

// A position past the end is stored as given and leaves a gap.
func TestLevelService_SetActive_PositionBeyondEndLeavesGap(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	seedLevel(t, db, "A", ptr(1))
	far := seedLevel(t, db, "Far", nil)

	result, err := svc.SetActive(context.Background(), far.ID, true, ptr(5))
	require.NoError(t, err)
	assert.Equal(t, 5, *result.Position)
	assert.Equal(t, 5, *positionOf(t, db, far.ID))

	count, err := repository.NewGormLevelRepository().CountActive(context.Background(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

// Random activate/deactivate sequences keep the ordering dense. An inactive
// level may be inserted anywhere in 1..N+1; an active level is moved within
// 1..N, since its own slot is released before the new one is taken.
func TestLevelService_SetActive_DensityProperty(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"L1", "L2", "L3", "L4", "L5", "L6", "L7"} {
		ids = append(ids, seedLevel(t, db, title, nil).ID)
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 300; step++ {
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(3) == 0 {
			_, err := svc.SetActive(ctx, id, false, nil)
			require.NoError(t, err, "step %d: deactivate %d", step, id)
		} else {
			var activeCount int64
			require.NoError(t, db.Model(&model.Level{}).Where("ativo = ?", true).Count(&activeCount).Error)
			slots := int(activeCount) + 1
			if reloadLevel(t, db, id).Active {
				slots = int(activeCount)
			}
			position := rng.Intn(slots) + 1
			_, err := svc.SetActive(ctx, id, true, &position)
			require.NoError(t, err, "step %d: activate %d at %d", step, id, position)
		}
		assertDense(t, db)
		if t.Failed() {
			t.Fatalf("density broken at step %d", step)
		}
	}
}

func TestLevelService_DeleteLevel_ClosesGap(t *testing.T) {
	db := setupTestDB(t)
	svc := newLevelService(db)
	a := seedLevel(t, db, "A", ptr(1))
	b := seedLevel(t, db, "B", ptr(2))
	c := seedLevel(t, db, "C", ptr(3))
	require.NoError(t, db.Create(&model.Question{LevelID: b.ID, Text: "?", CorrectAnswer: "a", Option1: "b", Option2: "c", Option3: "d", Order: 1}).Error)

	require.NoError(t, svc.DeleteLevel(context.Background(), b.ID))

	var remaining int64
	require.NoError(t, db.Model(&model.Level{}).Where("id = ?", b.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	var questions int64
	require.NoError(t, db.Model(&model.Question{}).Where("nivel_id = ?", b.ID).Count(&questions).Error)
	assert.Zero(t, questions)

	assert.Equal(t, 1, *positionOf(t, db, a.ID))
	assert.Equal(t, 2, *positionOf(t, db, c.ID))
	assertDense(t, db)

	err := svc.DeleteLevel(context.Background(), b.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// failingLevelRepository fails one reorder statement after the real writes before it succeeded.
type failingLevelRepository struct {
	repository.LevelRepository
	failShiftDown bool
	failShiftUp   bool
}

var errInjected = errors.New("injected store failure")

func (r *failingLevelRepository) ShiftDownAfter(ctx context.Context, tx *gorm.DB, position int) error {
	if r.failShiftDown {
		return errInjected
	}
	return r.LevelRepository.ShiftDownAfter(ctx, tx, position)
}

func (r *failingLevelRepository) ShiftUpFrom(ctx context.Context, tx *gorm.DB, position int) error {
	if r.failShiftUp {
		return errInjected
	}
	return r.LevelRepository.ShiftUpFrom(ctx, tx, position)
}

func snapshotLevels(t *testing.T, db *gorm.DB) []model.Level {
	t.Helper()
	var levels []model.Level
	require.NoError(t, db.Order("id").Find(&levels).Error)
	return levels
}

func TestLevelService_SetActive_RollsBackOnReorderFailure(t *testing.T) {
	tests := []struct {
		name     string
		repo     *failingLevelRepository
		target   func(a, b, c, d *model.Level) int64
		active   bool
		position *int
	}{
		{
			name:   "deactivate fails while closing the gap",
			repo:   &failingLevelRepository{LevelRepository: repository.NewGormLevelRepository(), failShiftDown: true},
			target: func(a, b, c, d *model.Level) int64 { return b.ID },
			active: false,
		},
		{
			name:     "activate fails while opening a slot",
			repo:     &failingLevelRepository{LevelRepository: repository.NewGormLevelRepository(), failShiftUp: true},
			target:   func(a, b, c, d *model.Level) int64 { return d.ID },
			active:   true,
			position: ptr(2),
		},
		{
			name:     "move fails after detaching",
			repo:     &failingLevelRepository{LevelRepository: repository.NewGormLevelRepository(), failShiftUp: true},
			target:   func(a, b, c, d *model.Level) int64 { return c.ID },
			active:   true,
			position: ptr(1),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			a := seedLevel(t, db, "A", ptr(1))
			b := seedLevel(t, db, "B", ptr(2))
			c := seedLevel(t, db, "C", ptr(3))
			d := seedLevel(t, db, "D", nil)
			user := seedUser(t, db, "ana")
			before := snapshotLevels(t, db)

			svc := service.NewLevelService(db, tc.repo, repository.NewGormQuestionRepository())
			result, err := svc.SetActive(context.Background(), tc.target(a, b, c, d), tc.active, tc.position)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, model.ErrTransactionFailure)
			assert.ErrorIs(t, err, errInjected)

			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Erro ao processar solicitação.", appErr.Message)

			assert.Equal(t, before, snapshotLevels(t, db))
			assert.Equal(t, 0, reloadUser(t, db, user.ID).XPTotal)
		})
	}
}

// vanishingLevelRepository reports the row as gone when the final activation write runs.
type vanishingLevelRepository struct {
	repository.LevelRepository
}

func (r *vanishingLevelRepository) SetActivation(ctx context.Context, tx *gorm.DB, id int64, active bool, position *int) error {
	return model.ErrNotFound
}

func TestLevelService_SetActive_StoreSentinelStaysServerError(t *testing.T) {
	db := setupTestDB(t)
	level := seedLevel(t, db, "A", nil)
	svc := service.NewLevelService(db, &vanishingLevelRepository{LevelRepository: repository.NewGormLevelRepository()}, repository.NewGormQuestionRepository())

	_, err := svc.SetActive(context.Background(), level.ID, true, ptr(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSACTION_FAILED", appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, webutil.MapErrorToStatusCode(err))
	assert.Nil(t, reloadLevel(t, db, level.ID).Position)
}
