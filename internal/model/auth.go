package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Auth  bool   `json:"auth"`
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"nome" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=6,max=72"`
}

// JWTCustomClaims is the token payload. "id" and "tipo" are what the front end reads.
type JWTCustomClaims struct {
	UserID int64  `json:"id"`
	Role   string `json:"tipo"`
	jwt.RegisteredClaims
}

type ContextKey string

const (
	UserIDKey   ContextKey = "userID"
	UserRoleKey ContextKey = "userRole"
)
