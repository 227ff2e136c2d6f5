// internal/model/question.go
package model

// Question is one multiple-choice quiz question of a level.
type Question struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LevelID       int64  `gorm:"column:nivel_id;not null;index" json:"nivel_id"`
	Text          string `gorm:"column:texto;not null" json:"texto"`
	CorrectAnswer string `gorm:"column:resposta_correta;not null" json:"resposta_correta"`
	Option1       string `gorm:"column:opcao1;not null" json:"opcao1"`
	Option2       string `gorm:"column:opcao2;not null" json:"opcao2"`
	Option3       string `gorm:"column:opcao3;not null" json:"opcao3"`
	Order         int    `gorm:"column:ordem;not null" json:"ordem"`
	CreatedBy     *int64 `gorm:"column:usuario_id" json:"usuario_id,omitempty"`
}

func (Question) TableName() string {
	return "perguntas"
}

type CreateQuestionRequest struct {
	LevelID       int64  `json:"nivel_id" validate:"required,gt=0"`
	Text          string `json:"texto" validate:"required"`
	CorrectAnswer string `json:"resposta_correta" validate:"required"`
	Option1       string `json:"opcao1" validate:"required"`
	Option2       string `json:"opcao2" validate:"required"`
	Option3       string `json:"opcao3" validate:"required"`
}

type UpdateQuestionRequest struct {
	Text          string `json:"texto" validate:"required"`
	CorrectAnswer string `json:"resposta_correta" validate:"required"`
	Option1       string `json:"opcao1" validate:"required"`
	Option2       string `json:"opcao2" validate:"required"`
	Option3       string `json:"opcao3" validate:"required"`
}

// RandomQuestionsResponse carries a quiz round and the XP the level is worth.
type RandomQuestionsResponse struct {
	Questions []*Question `json:"perguntas"`
	XPTotal   int         `json:"xp_total"`
}
