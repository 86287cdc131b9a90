package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neighborfit-backend/models"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidBudgetRange = errors.New("min budget must not exceed max budget")
	ErrInvalidProfile     = errors.New("invalid user profile")
)

// UserService handles user registration and profile management
type UserService struct {
	users UserStore
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// UserWithUserStore sets the user store
func UserWithUserStore(store UserStore) UserServiceOption {
	return func(s *UserService) {
		s.users = store
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validateProfile checks the fields every stored profile must satisfy
func validateProfile(user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidProfile)
	}
	if user.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidProfile)
	}
	if user.MinBudget > user.MaxBudget {
		return ErrInvalidBudgetRange
	}
	return nil
}

// Register validates and stores a new user profile
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	if s.users == nil {
		return errors.New("user store not set")
	}

	if err := validateProfile(user); err != nil {
		return err
	}

	taken, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// ListByAgeRange retrieves users within an age range
func (s *UserService) ListByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.User, error) {
	if minAge < 0 || minAge > maxAge {
		return nil, fmt.Errorf("%w: bad age range", ErrInvalidProfile)
	}
	return s.users.ListByAgeRange(ctx, minAge, maxAge)
}

// ListByIncomeLevel retrieves users with the given income level
func (s *UserService) ListByIncomeLevel(ctx context.Context, level models.IncomeLevel) ([]*models.User, error) {
	return s.users.ListByIncomeLevel(ctx, level)
}

// ListByFamilyStatus retrieves users with the given family status
func (s *UserService) ListByFamilyStatus(ctx context.Context, status models.FamilyStatus) ([]*models.User, error) {
	return s.users.ListByFamilyStatus(ctx, status)
}

// ListByLocationType retrieves users preferring the given location type
func (s *UserService) ListByLocationType(ctx context.Context, locationType models.LocationType) ([]*models.User, error) {
	return s.users.ListByLocationType(ctx, locationType)
}

// Update validates and stores profile changes. Changing the email to one
// another user holds is rejected.
func (s *UserService) Update(ctx context.Context, user *models.User) error {
	existing, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := validateProfile(user); err != nil {
		return err
	}

	if user.Email != existing.Email {
		taken, err := s.users.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a user; their matches cascade away with them
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return ErrUserNotFound
	}
	return s.users.Delete(ctx, id)
}

// ValidateForMatching reports whether a profile carries everything the
// matching engine scores on
func (s *UserService) ValidateForMatching(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Age <= 0 {
		return false
	}
	if user.MaxBudget <= 0 || user.MinBudget > user.MaxBudget {
		return false
	}
	if user.FamilyStatus == "" {
		return false
	}
	if user.TransportationPreference == "" {
		return false
	}
	if user.MaxCommuteTimeMinutes <= 0 {
		return false
	}
	return true
}
