package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

// SessionConfig controls minting of the session cookie token.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// SessionClaims is the signed payload stored in the session cookie. The
// user object travels inside the token so a page load needs no gateway
// round trip to restore the session.
type SessionClaims struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Class string `json:"class,omitempty"`
	// TeachingSubject carries the teacher's subject label; "subject" in
	// the wire sense, distinct from the JWT sub claim.
	TeachingSubject string `json:"subject,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// AuthService owns the login flow and session token lifecycle.
type AuthService struct {
	gw        gateway.Caller
	config    SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(gw gateway.Caller, config SessionConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{gw: gw, config: config, validator: validate, logger: logger}
}

// Login authenticates against the gateway and mints a session token for
// the returned user.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.User, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "Username dan password diperlukan")
	}

	result := s.gw.Call(ctx, gateway.ActionLogin, gateway.Params{
		"username": req.Username,
		"password": req.Password,
	})
	if !result.Success || result.User == nil {
		message := result.Message
		if message == "" {
			message = "Username atau password salah"
		}
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, message)
	}

	token, err := s.mintToken(*result.User)
	if err != nil {
		s.logger.Error("session token mint failed", zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", result.User.ID),
		zap.String("role", result.User.Role))

	return result.User, token, nil
}

// ParseSession restores the user from a session token. Any malformed,
// forged or expired token resolves to ErrUnauthorized; the caller treats
// that as an anonymous visitor, never as a fatal error.
func (s *AuthService) ParseSession(token string) (*models.User, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.ErrUnauthorized
	}

	return &models.User{
		ID:      claims.RegisteredClaims.Subject,
		Name:    claims.Name,
		Role:    claims.Role,
		Class:   claims.Class,
		Subject: claims.TeachingSubject,
	}, nil
}

func (s *AuthService) mintToken(user models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name:            user.Name,
		Role:            user.Role,
		Class:           user.Class,
		TeachingSubject: user.Subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
