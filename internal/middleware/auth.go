// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agape_study_api/internal/config"
	"agape_study_api/internal/model"
	"agape_study_api/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthMiddleware validates the Bearer token and stores the user id and role
// in the request context. A missing token is 401, an invalid one 403.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Acesso negado. Token não fornecido.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" || headerParts[1] == "" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Acesso negado. Token não fornecido.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			claims, err := ParseToken(headerParts[1], cfg.JWT.SecretKey)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "Token inválido.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, model.UserRoleKey, claims.Role)
			ctx = WithLogger(ctx, logger.With("user_id", claims.UserID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken verifies signature, algorithm and expiry, and returns the claims.
func ParseToken(tokenString, secret string) (*model.JWTCustomClaims, error) {
	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// RequireAdmin must run after JWTAuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())
		role, _ := r.Context().Value(model.UserRoleKey).(string)
		if role != model.RoleAdmin {
			logger.Warn("Admin route accessed by non-admin", "role", role, "path", r.URL.Path)
			appErr := model.NewAppError("FORBIDDEN", "Acesso restrito a administradores.", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (int64, error) {
	value, ok := ctx.Value(model.UserIDKey).(int64)
	if !ok || value <= 0 {
		return 0, model.NewAppError("INTERNAL_SERVER_ERROR", "Não foi possível obter o usuário da requisição.", "", model.ErrInternalServer)
	}
	return value, nil
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(model.UserRoleKey).(string)
	return role
}
