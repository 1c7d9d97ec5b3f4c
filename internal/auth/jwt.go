// Package auth turns bearer tokens issued by the external Auth Service into callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotelbook/internal/models"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims mirrors what the Auth Service puts into its access tokens.
type Claims struct {
	Username  string `json:"username"`
	IsManager bool   `json:"is_manager"`
	IsAdmin   bool   `json:"is_admin"`
	jwtlib.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the shared secret.
type Verifier struct {
	secret []byte
	parser *jwtlib.Parser
}

func NewVerifier(secret, issuer string) *Verifier {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(issuer))
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwtlib.NewParser(opts...),
	}
}

// Verify parses tokenStr and returns the caller it identifies.
func (v *Verifier) Verify(tokenStr string) (*models.Caller, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}

	return &models.Caller{
		UserID:   userID,
		Username: claims.Username,
		Roles:    models.RoleSet{Manager: claims.IsManager, Admin: claims.IsAdmin},
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// Issuer signs tokens the way the Auth Service does. Used by tests and local tooling.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (i *Issuer) Issue(caller *models.Caller) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:  caller.Username,
		IsManager: caller.Roles.Manager,
		IsAdmin:   caller.Roles.Admin,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(caller.UserID, 10),
			Issuer:    i.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller *models.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller stored by WithCaller, or nil.
func CallerFromContext(ctx context.Context) *models.Caller {
	caller, _ := ctx.Value(callerKey{}).(*models.Caller)
	return caller
}
