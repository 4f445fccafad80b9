package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dairydesk/backend/internal/config"
	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/repository/mongodb"
)

var (
	// ErrBadCredentials covers unknown mobiles, wrong passwords and
	// deactivated accounts alike; callers get no distinction.
	ErrBadCredentials = errors.New("invalid mobile or password")
	// ErrInvalidToken marks a token that failed parsing or verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the JWT payload issued at login.
type Claims struct {
	Mobile string      `json:"mobile"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserStore resolves login credentials.
type UserStore interface {
	FindByMobile(ctx context.Context, mobile string) (*models.User, error)
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewService wires a new auth service.
func NewService(store UserStore, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		logger: logger,
	}
}

// Login verifies the mobile/password pair and returns a signed token with
// the authenticated user.
func (s *Service) Login(ctx context.Context, mobile, password string) (string, *models.User, error) {
	user, err := s.store.FindByMobile(ctx, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("resolve login user: %w", err)
	}
	if !user.IsActive {
		return "", nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrBadCredentials
	}

	now := time.Now()
	claims := Claims{
		Mobile: user.Mobile,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.Hex()))
	return token, user, nil
}

// Verify parses and validates a token, returning the caller identity.
func (s *Service) Verify(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	return models.Identity{
		UserID: claims.Subject,
		Mobile: claims.Mobile,
		Role:   claims.Role,
	}, nil
}
