package bookshelf

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

type authContextkey int

const (
	AuthHeaderName = "Authorization"
)

const (
	subjectContextKey authContextkey = iota
)

// AuthService guards the write routes. Without a signing secret every request
// is let through, which matches a catalog running on a trusted network.
type AuthService interface {
	Enabled() bool
	WriteRequired() func(http.Handler) http.Handler
	GetSubjectFromCtx(ctx context.Context) (string, error)
	IssueToken(subject string, ttl time.Duration) (string, error)
}

type Claims struct {
	jwt.RegisteredClaims
}

func NewClaims(subject, issuer string, ttl time.Duration) *Claims {
	now := time.Now()

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

type AuthServiceParams struct {
	fx.In

	Config Config
	Logger LoggerService
}

type AuthServiceResult struct {
	fx.Out

	AuthService AuthService
}

type authService struct {
	issuer        string
	logger        LoggerService
	signingSecret string
}

func NewAuthService(params AuthServiceParams) (AuthServiceResult, error) {
	var result AuthServiceResult

	svc := &authService{
		issuer:        params.Config.AuthIssuer,
		logger:        params.Logger,
		signingSecret: params.Config.AuthSigningSecret,
	}

	if !svc.Enabled() {
		params.Logger.Warn("AUTH_SIGNING_SECRET is empty, write routes are unprotected")
	}

	result.AuthService = svc

	return result, nil
}

func (svc *authService) Enabled() bool {
	return svc.signingSecret != ""
}

func (svc *authService) WriteRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !svc.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := svc.getTokenStringFromAuthHeader(r)
			if err != nil {
				render.Render(w, r, ErrUnauthorized(err))
				return
			}

			claims, err := svc.validateToken(tokenString)
			if err != nil {
				svc.logger.Debug("rejected token", "error", err)
				render.Render(w, r, ErrUnauthorized(err))
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (svc *authService) GetSubjectFromCtx(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(subjectContextKey).(string)
	if !ok {
		return "", fmt.Errorf("could not get subject from context")
	}

	return subject, nil
}

func (svc *authService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if !svc.Enabled() {
		return "", fmt.Errorf("no signing secret configured")
	}

	claims := NewClaims(subject, svc.issuer, ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(svc.signingSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (svc *authService) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(svc.signingSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(svc.issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func (svc *authService) getTokenStringFromAuthHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get(AuthHeaderName)

	if authHeader == "" {
		return "", fmt.Errorf("missing auth header")
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return "", fmt.Errorf("malformed auth header")
	}

	return tokenString, nil
}
