package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token is missing required claims")

// Claims are the values an API token carries.
type Claims struct {
	Subject string
	Role    user.Role
}

type Service interface {
	// GenerateAccessToken signs a token for subject valid for the configured lifetime.
	GenerateAccessToken(subject string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(subject string, role user.Role) (token string, expiresAt int64, err error) {
	if subject == "" || !role.IsValid() {
		return "", 0, ErrInvalidClaims
	}
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": "access",
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the claims verified by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return Claims{}, ErrInvalidClaims
	}
	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if subject == "" || !user.Role(role).IsValid() {
		return Claims{}, ErrInvalidClaims
	}

	return Claims{Subject: subject, Role: user.Role(role)}, nil
}
