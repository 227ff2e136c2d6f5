// internal/model/level.go
package model

// Level is a content unit holding up to twelve quiz steps.
// Position is only set while the level is active and is dense among active levels.
type Level struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:titulo;not null" json:"titulo"`
	Description string `gorm:"column:descricao;not null" json:"descricao"`
	XPTotal     int    `gorm:"column:xp_total;not null" json:"xp_total"`
	Active      bool   `gorm:"column:ativo;not null;default:false" json:"ativo"`
	Position    *int   `gorm:"column:posicao" json:"posicao"`
	CreatedBy   *int64 `gorm:"column:usuario_id" json:"usuario_id,omitempty"`
}

func (Level) TableName() string {
	return "niveis"
}

// CreateLevelRequest is the body of POST /niveis.
type CreateLevelRequest struct {
	Title       string `json:"titulo" validate:"required"`
	Description string `json:"descricao" validate:"required"`
	XPTotal     int    `json:"xp_total" validate:"required,gt=0"`
}

// UpdateLevelRequest is the body of PUT /niveis/{id}.
type UpdateLevelRequest struct {
	Title       string `json:"titulo" validate:"required"`
	Description string `json:"descricao" validate:"required"`
	XPTotal     int    `json:"xp_total" validate:"required,gt=0"`
}

// SetActiveRequest is the body of PUT /niveis/{id}/ativar.
// Active is a pointer so that a missing field can be told apart from false.
type SetActiveRequest struct {
	Active   *bool `json:"ativo" validate:"required"`
	Position *int  `json:"posicao"`
}

// ActivationResult describes the outcome of a SetActive call.
type ActivationResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Active   bool   `json:"ativo"`
	Position *int   `json:"posicao,omitempty"`
}
