// internal/model/friendship.go
package model

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pendente"
	FriendshipAccepted FriendshipStatus = "aceito"
	FriendshipRejected FriendshipStatus = "recusado"
)

// Friendship links a requester (UserID1) and an addressee (UserID2).
type Friendship struct {
	ID      int64            `gorm:"column:id_amizade;primaryKey;autoIncrement" json:"id_amizade"`
	UserID1 int64            `gorm:"column:id_usuario1;not null;index" json:"id_usuario1"`
	UserID2 int64            `gorm:"column:id_usuario2;not null;index" json:"id_usuario2"`
	Status  FriendshipStatus `gorm:"column:status;type:varchar(20);not null;default:pendente" json:"status"`
}

func (Friendship) TableName() string {
	return "Amizades"
}

// FriendEntry is one line of a friendship listing: the other party plus the friendship id.
type FriendEntry struct {
	FriendshipID int64  `gorm:"column:id_amizade" json:"id_amizade"`
	UserID       int64  `gorm:"column:id_usuario" json:"id_usuario,omitempty"`
	Name         string `gorm:"column:nome" json:"nome"`
	Email        string `gorm:"column:email" json:"email"`
}

// FriendshipOverview is the response of GET /amizades.
type FriendshipOverview struct {
	Friends         []*FriendEntry `json:"amigos"`
	PendingReceived []*FriendEntry `json:"pedidosPendentes"`
	PendingSent     []*FriendEntry `json:"solicitacoesEnviadas"`
}

type CreateFriendshipRequest struct {
	AddresseeID int64 `json:"id_usuario2" validate:"required,gt=0"`
}

type UpdateFriendshipRequest struct {
	Status FriendshipStatus `json:"status" validate:"required,oneof=aceito recusado"`
}
