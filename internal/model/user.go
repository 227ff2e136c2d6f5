// internal/model/user.go
package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. XPTotal is a denormalized sum kept by progress accrual.
type User struct {
	ID           int64     `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id_usuario"`
	Name         string    `gorm:"column:nome;not null" json:"nome"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:senha;not null" json:"-"`
	Role         string    `gorm:"column:tipo;not null;default:user" json:"tipo"`
	XPTotal      int       `gorm:"column:xp_total;not null;default:0" json:"xp_total"`
	CurrentStage int       `gorm:"column:fase_atual;not null;default:1" json:"fase_atual"`
	CreatedAt    time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (User) TableName() string {
	return "Usuarios"
}

// PublicUser is the subset of User returned to other users.
type PublicUser struct {
	ID           int64     `json:"id_usuario"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	XPTotal      int       `json:"xp_total"`
	CurrentStage int       `json:"fase_atual"`
	Role         string    `json:"tipo"`
	CreatedAt    time.Time `json:"criado_em"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		XPTotal:      u.XPTotal,
		CurrentStage: u.CurrentStage,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

// UserSummary is used by search and friendship listings.
type UserSummary struct {
	ID    int64  `gorm:"column:id_usuario" json:"id_usuario"`
	Name  string `gorm:"column:nome" json:"nome"`
	Email string `gorm:"column:email" json:"email"`
}

// AdminUpdateUserRequest is the body of PUT /usuarios/{id}.
// xp_total is not editable here; only progress accrual changes it.
type AdminUpdateUserRequest struct {
	Name         string `json:"nome" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"tipo" validate:"required,oneof=user admin"`
	CurrentStage int    `json:"fase_atual" validate:"required,gt=0"`
}

// UpdateProfileRequest is the body of PUT /usuarios/perfil.
type UpdateProfileRequest struct {
	Name     string  `json:"nome" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"senha,omitempty" validate:"omitempty,min=6,max=72"`
}
