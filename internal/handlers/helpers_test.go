// internal/handlers/helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"agape_study_api/internal/model"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// asUser stands in for JWTAuthMiddleware.
func asUser(userID int64, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			ctx = context.WithValue(ctx, model.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(userID int64) *chi.Mux {
	r := chi.NewRouter()
	if userID > 0 {
		r.Use(asUser(userID, model.RoleAdmin))
	}
	return r
}

// newRequest marshals body unless it is already a string.
func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) model.APIErrorResponse {
	t.Helper()
	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "body: %s", rr.Body.String())
	return resp
}

func intPtr(v int) *int {
	return &v
}
