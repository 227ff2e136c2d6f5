package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agape_study_api/internal/config"
	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int64, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := model.JWTCustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// echoIdentity writes the user id and role the middleware stored in the context.
func echoIdentity(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":   userID,
		"tipo": middleware.GetUserRoleFromContext(r.Context()),
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	handler := middleware.JWTAuthMiddleware(cfg)(http.HandlerFunc(echoIdentity))

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid token", header: "Bearer " + signToken(t, testSecret, 7, model.RoleUser, time.Hour), wantStatus: http.StatusOK},
		{name: "lower-case scheme", header: "bearer " + signToken(t, testSecret, 7, model.RoleUser, time.Hour), wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "no scheme", header: signToken(t, testSecret, 7, model.RoleUser, time.Hour), wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", 7, model.RoleUser, time.Hour), wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, 7, model.RoleUser, -time.Minute), wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "no user id", header: "Bearer " + signToken(t, testSecret, 0, model.RoleUser, time.Hour), wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/niveis", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantCode != "" {
				var body model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tc.wantCode, body.Error.Code)
				assert.False(t, body.Success)
				return
			}
			var identity map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &identity))
			assert.EqualValues(t, 7, identity["id"])
			assert.Equal(t, model.RoleUser, identity["tipo"])
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	handler := middleware.JWTAuthMiddleware(cfg)(middleware.RequireAdmin(http.HandlerFunc(echoIdentity)))

	testCases := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "admin passes", role: model.RoleAdmin, wantStatus: http.StatusOK},
		{name: "user is forbidden", role: model.RoleUser, wantStatus: http.StatusForbidden},
		{name: "empty role is forbidden", role: "", wantStatus: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/niveis/1/ativo", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 3, tc.role, time.Hour))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := model.JWTCustomClaims{
		UserID:           1,
		Role:             model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = middleware.ParseToken(signed, testSecret)
	assert.Error(t, err)
}
