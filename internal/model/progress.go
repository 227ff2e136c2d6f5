// internal/model/progress.go
package model

const (
	MinStepOrder = 1
	MaxStepOrder = 12
)

// ProgressEntry records one user's interaction with one step ("button") of a level.
type ProgressEntry struct {
	UserID    int64 `gorm:"column:usuario_id;primaryKey;autoIncrement:false" json:"usuario_id"`
	LevelID   int64 `gorm:"column:nivel_id;primaryKey;autoIncrement:false" json:"nivel_id"`
	Order     int   `gorm:"column:ordem;primaryKey;autoIncrement:false" json:"ordem"`
	XPEarned  int   `gorm:"column:xp_ganho;not null;default:0" json:"xp_ganho"`
	Completed bool  `gorm:"column:concluido;not null;default:false" json:"concluido"`
}

func (ProgressEntry) TableName() string {
	return "ProgressoUsuario"
}

// RecordProgressRequest is the body of POST /progresso.
// XPEarned uses "required" so that zero is rejected like any other missing value.
type RecordProgressRequest struct {
	LevelID  int64 `json:"nivel_id" validate:"required"`
	XPEarned int   `json:"xp_ganho" validate:"required"`
	Order    int   `json:"ordem" validate:"required"`
}

// RecordProgressResult is returned after a step completion has been stored.
type RecordProgressResult struct {
	XPEarned int `json:"xp_ganho"`
	Order    int `json:"ordem"`
}

// ButtonProgress is the per-step view used by the level screen.
type ButtonProgress struct {
	Completed bool `json:"concluido"`
	XPEarned  int  `json:"xp_ganho"`
}

// LevelCompletion is one row of the reconciliation view.
type LevelCompletion struct {
	LevelID   int64 `gorm:"column:nivel_id" json:"-"`
	Completed int   `gorm:"column:completos" json:"completos"`
	XPTotal   int   `gorm:"column:xp_total" json:"xp_total"`
}

// ReconcileResult is returned by the reconciliation path.
type ReconcileResult struct {
	Levels  map[int64]LevelCompletion `json:"niveisCompletos"`
	XPTotal int                       `json:"xp_total"`
}
