package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medbook/medbook-go/internal/crypto"
	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/repository"
	"github.com/medbook/medbook-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardFixture struct {
	tokens *crypto.Tokens
	users  *repository.MemoryUserRepository
	user   *model.User
	token  string
}

func newGuardFixture(t *testing.T, role model.Role) *guardFixture {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	user := &model.User{Name: "A", Email: "a@x.com", Role: role, PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), user))

	tokens := crypto.NewTokens("test-secret", time.Hour)
	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	return &guardFixture{tokens: tokens, users: users, user: user, token: token}
}

// serve runs req through Authenticate followed by the optional extra
// middleware and a handler that echoes the resolved user id.
func (f *guardFixture) serve(req *http.Request, extra ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(user.ID))
	})
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	h = Authenticate(f.tokens, service.NewAuthService(f.users))(h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	f := newGuardFixture(t, model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := f.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.user.ID, rec.Body.String())
}

func TestAuthenticate_Cookie(t *testing.T) {
	f := newGuardFixture(t, model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: f.token})
	rec := f.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.user.ID, rec.Body.String())
}

func TestAuthenticate_MalformedHeaderFallsBackToCookie(t *testing.T) {
	f := newGuardFixture(t, model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+f.token)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: f.token})
	rec := f.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_Rejects(t *testing.T) {
	f := newGuardFixture(t, model.RoleUser)
	foreign, err := crypto.NewTokens("other-secret", time.Hour).Issue(f.user.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
	}{
		{name: "no token"},
		{name: "malformed header only", header: f.token},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "foreign secret", header: "Bearer " + foreign},
		{name: "cleared cookie", cookie: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			rec := f.serve(req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, msgNotAuthorized, body["message"])
		})
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	f := newGuardFixture(t, model.RoleUser)
	f.users.Delete(f.user.ID)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := f.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type failingLookup struct{}

func (failingLookup) GetUser(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	tokens := crypto.NewTokens("test-secret", time.Hour)
	token, err := tokens.Issue("u-1")
	require.NoError(t, err)

	h := Authenticate(tokens, failingLookup{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run when the store fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRequireRoles(t *testing.T) {
	adminsOnly := RequireRoles(model.NewRoleSet(model.RoleAdmin))

	tests := []struct {
		role model.Role
		want int
	}{
		{model.RoleUser, http.StatusForbidden},
		{model.RoleStaff, http.StatusForbidden},
		{model.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := newGuardFixture(t, tt.role)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+f.token)
			rec := f.serve(req, adminsOnly)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoles_WithoutIdentity(t *testing.T) {
	h := RequireRoles(model.NewRoleSet(model.RoleAdmin))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without an identity")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
