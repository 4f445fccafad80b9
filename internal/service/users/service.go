package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/repository/mongodb"
)

var (
	// ErrInvalid marks rejected user input.
	ErrInvalid = errors.New("invalid user input")
	// ErrDuplicate marks an email or mobile already in use.
	ErrDuplicate = errors.New("already in use")

	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByMobile(ctx context.Context, mobile string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CreateInput carries the fields for registering a user.
type CreateInput struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email"`
	Mobile   string      `json:"mobile" binding:"required"`
	Gender   string      `json:"gender"`
	Address  string      `json:"address"`
	Role     models.Role `json:"role"`
	Password string      `json:"password" binding:"required"`
}

// UpdateInput carries the updatable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Mobile   *string      `json:"mobile"`
	Address  *string      `json:"address"`
	IsActive *bool        `json:"isActive"`
	Role     *models.Role `json:"role"`
}

// Service manages user accounts. Password hashes never leave this package.
type Service struct {
	store  UserStore
	logger *zap.Logger
}

// NewService wires a new user service.
func NewService(store UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Create registers a new user after uniqueness checks.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 100 {
		return models.User{}, fmt.Errorf("%w: name must be 2-100 characters", ErrInvalid)
	}
	mobile := strings.TrimSpace(input.Mobile)
	if !mobilePattern.MatchString(mobile) {
		return models.User{}, fmt.Errorf("%w: mobile must be exactly 10 digits", ErrInvalid)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.assertUnique(ctx, email, mobile, ""); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role < models.RoleSuperAdmin || role > models.RoleSeller {
		role = models.RoleConsumer
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		Gender:       input.Gender,
		Address:      strings.TrimSpace(input.Address),
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	created, err := s.store.Insert(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Info("user created",
		zap.String("id", created.ID.Hex()),
		zap.Int("role", int(created.Role)))
	return created, nil
}

// ListByRole returns every user carrying the given role.
func (s *Service) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.store.ListByRole(ctx, role)
}

// Update applies profile changes. Role changes are restricted to demoting an
// admin to consumer.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Role != nil && user.Role == models.RoleAdmin && *input.Role == models.RoleConsumer {
		user.Role = models.RoleConsumer
	}
	if input.Mobile != nil {
		mobile := strings.TrimSpace(*input.Mobile)
		if !mobilePattern.MatchString(mobile) {
			return nil, fmt.Errorf("%w: mobile must be exactly 10 digits", ErrInvalid)
		}
		if mobile != user.Mobile {
			if err := s.assertUnique(ctx, "", mobile, user.ID.Hex()); err != nil {
				return nil, err
			}
			user.Mobile = mobile
		}
	}

	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces a user's password hash.
func (s *Service) ChangePassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password too short", ErrInvalid)
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	return s.store.Update(ctx, user)
}

func (s *Service) assertUnique(ctx context.Context, email, mobile, excludeID string) error {
	if email != "" {
		existing, err := s.store.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID.Hex() != excludeID {
			return fmt.Errorf("email %w", ErrDuplicate)
		}
	}
	if mobile != "" {
		existing, err := s.store.FindByMobile(ctx, mobile)
		if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID.Hex() != excludeID {
			return fmt.Errorf("mobile %w", ErrDuplicate)
		}
	}
	return nil
}
