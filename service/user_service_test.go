package service

import (
	"context"
	"testing"

	"neighborfit-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("stores a valid profile", func(t *testing.T) {
		store := newFakeUserStore()
		svc := NewUserService(UserWithUserStore(store))

		user := urbanProfessional()
		require.NoError(t, svc.Register(context.Background(), user))
		assert.NotEqual(t, uuid.Nil, user.ID)

		stored, err := svc.GetByEmail(context.Background(), user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		store := newFakeUserStore(urbanProfessional())
		svc := NewUserService(UserWithUserStore(store))

		dup := urbanProfessional()
		err := svc.Register(context.Background(), dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects an inverted budget range", func(t *testing.T) {
		svc := NewUserService(UserWithUserStore(newFakeUserStore()))

		user := urbanProfessional()
		user.MinBudget = 700000
		user.MaxBudget = 600000
		err := svc.Register(context.Background(), user)
		assert.ErrorIs(t, err, ErrInvalidBudgetRange)
	})

	t.Run("rejects missing identity fields", func(t *testing.T) {
		svc := NewUserService(UserWithUserStore(newFakeUserStore()))

		for name, mutate := range map[string]func(*models.User){
			"blank name":    func(u *models.User) { u.Name = "  " },
			"blank email":   func(u *models.User) { u.Email = "" },
			"invalid email": func(u *models.User) { u.Email = "not-an-email" },
			"zero age":      func(u *models.User) { u.Age = 0 },
		} {
			user := urbanProfessional()
			mutate(user)
			err := svc.Register(context.Background(), user)
			assert.ErrorIs(t, err, ErrInvalidProfile, name)
		}
	})
}

func TestUserUpdate(t *testing.T) {
	existing := urbanProfessional()
	other := urbanProfessional()
	other.Email = "other@email.com"
	store := newFakeUserStore(existing, other)
	svc := NewUserService(UserWithUserStore(store))

	t.Run("unknown user", func(t *testing.T) {
		ghost := urbanProfessional()
		ghost.ID = uuid.New()
		assert.ErrorIs(t, svc.Update(context.Background(), ghost), ErrUserNotFound)
	})

	t.Run("email change to a taken address is rejected", func(t *testing.T) {
		changed := *existing
		changed.Email = other.Email
		assert.ErrorIs(t, svc.Update(context.Background(), &changed), ErrEmailTaken)
	})

	t.Run("profile changes persist", func(t *testing.T) {
		changed := *existing
		changed.MaxBudget = 800000
		require.NoError(t, svc.Update(context.Background(), &changed))

		stored, err := svc.GetByID(context.Background(), existing.ID)
		require.NoError(t, err)
		assert.Equal(t, 800000, stored.MaxBudget)
	})
}

func TestUserListByAgeRange(t *testing.T) {
	young := urbanProfessional()
	old := urbanProfessional()
	old.Email = "old@email.com"
	old.Age = 68
	svc := NewUserService(UserWithUserStore(newFakeUserStore(young, old)))

	users, err := svc.ListByAgeRange(context.Background(), 20, 40)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, young.ID, users[0].ID)

	_, err = svc.ListByAgeRange(context.Background(), 50, 20)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestUserDelete(t *testing.T) {
	user := urbanProfessional()
	svc := NewUserService(UserWithUserStore(newFakeUserStore(user)))

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrUserNotFound)

	require.NoError(t, svc.Delete(context.Background(), user.ID))
	_, err := svc.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateForMatching(t *testing.T) {
	svc := NewUserService(UserWithUserStore(newFakeUserStore()))

	assert.True(t, svc.ValidateForMatching(urbanProfessional()))
	assert.False(t, svc.ValidateForMatching(nil))

	for name, mutate := range map[string]func(*models.User){
		"zero age":          func(u *models.User) { u.Age = 0 },
		"no budget":         func(u *models.User) { u.MaxBudget = 0 },
		"inverted budget":   func(u *models.User) { u.MinBudget = u.MaxBudget + 1 },
		"no family status":  func(u *models.User) { u.FamilyStatus = "" },
		"no transport mode": func(u *models.User) { u.TransportationPreference = "" },
		"no commute limit":  func(u *models.User) { u.MaxCommuteTimeMinutes = 0 },
	} {
		user := urbanProfessional()
		mutate(user)
		assert.False(t, svc.ValidateForMatching(user), name)
	}
}
