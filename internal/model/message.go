// internal/model/message.go
package model

// DailyMessage is a verse with a short devotional, shown one per day in rotation.
type DailyMessage struct {
	ID           int64  `gorm:"column:id_mensagem;primaryKey;autoIncrement" json:"id_mensagem"`
	UserID       *int64 `gorm:"column:usuario_id" json:"usuario_id,omitempty"`
	Version      string `gorm:"column:versao;not null" json:"versao"`
	Book         string `gorm:"column:livro;not null" json:"livro"`
	Chapter      int    `gorm:"column:capitulo;not null" json:"capitulo"`
	Verse        int    `gorm:"column:versiculo;not null" json:"versiculo"`
	VerseText    string `gorm:"column:texto_versiculo;not null" json:"texto_versiculo"`
	Title        string `gorm:"column:titulo;not null" json:"titulo"`
	Description  string `gorm:"column:descricao;not null" json:"descricao"`
	DisplayOrder int    `gorm:"column:ordem_exibicao;not null" json:"ordem_exibicao"`
}

func (DailyMessage) TableName() string {
	return "MensagensDiarias"
}

type CreateMessageRequest struct {
	Version     string `json:"versao" validate:"required"`
	Book        string `json:"livro" validate:"required"`
	Chapter     int    `json:"capitulo" validate:"required,gt=0"`
	Verse       int    `json:"versiculo" validate:"required,gt=0"`
	VerseText   string `json:"texto_versiculo" validate:"required"`
	Title       string `json:"titulo" validate:"required"`
	Description string `json:"descricao" validate:"required"`
}
