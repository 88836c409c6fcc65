package bookshelf

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, secret string) *authService {
	t.Helper()

	res, err := NewAuthService(AuthServiceParams{
		Config: Config{AuthSigningSecret: secret, AuthIssuer: "bookshelf"},
		Logger: NewLogger(io.Discard, slog.LevelDebug),
	})
	require.NoError(t, err)

	return res.AuthService.(*authService)
}

func TestIssueAndValidateToken(t *testing.T) {
	auth := newTestAuth(t, "secret")

	token, err := auth.IssueToken("alice", time.Hour)
	require.NoError(t, err)

	claims, err := auth.validateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "bookshelf", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	auth := newTestAuth(t, "secret")

	token, err := auth.IssueToken("alice", -time.Minute)
	require.NoError(t, err)

	_, err = auth.validateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	token, err := newTestAuth(t, "one").IssueToken("alice", time.Hour)
	require.NoError(t, err)

	_, err = newTestAuth(t, "two").validateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestIssueTokenWithoutSecret(t *testing.T) {
	_, err := newTestAuth(t, "").IssueToken("alice", time.Hour)

	assert.Error(t, err)
}

func TestWriteRequiredStoresSubject(t *testing.T) {
	auth := newTestAuth(t, "secret")

	token, err := auth.IssueToken("bob", time.Hour)
	require.NoError(t, err)

	var subject string
	handler := auth.WriteRequired()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err = auth.GetSubjectFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(AuthHeaderName, "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)
}

func TestWriteRequiredRejectsMalformedHeader(t *testing.T) {
	auth := newTestAuth(t, "secret")

	handler := auth.WriteRequired()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(AuthHeaderName, "Basic abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
