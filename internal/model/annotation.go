// internal/model/annotation.go
package model

import "time"

// Annotation is a user's personal note on a Bible verse.
type Annotation struct {
	ID        int64     `gorm:"column:id_anotacao;primaryKey;autoIncrement" json:"id_anotacao"`
	UserID    int64     `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	Version   string    `gorm:"column:versao;not null" json:"versao"`
	Book      string    `gorm:"column:livro;not null" json:"livro"`
	Chapter   int       `gorm:"column:capitulo;not null" json:"capitulo"`
	Verse     int       `gorm:"column:versiculo;not null" json:"versiculo"`
	VerseText string    `gorm:"column:texto_versiculo;not null" json:"texto_versiculo"`
	Note      string    `gorm:"column:texto_anotacao;not null" json:"texto_anotacao"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (Annotation) TableName() string {
	return "Anotacoes"
}

type CreateAnnotationRequest struct {
	Version   string `json:"versao" validate:"required"`
	Book      string `json:"livro" validate:"required"`
	Chapter   int    `json:"capitulo" validate:"required,gt=0"`
	Verse     int    `json:"versiculo" validate:"required,gt=0"`
	VerseText string `json:"texto_versiculo" validate:"required"`
	Note      string `json:"texto_anotacao" validate:"required"`
}
