package repository

import (
	"context"

	"neighborfit-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, age, gender, marital_status, education_level,
	income_level, occupation_type, lifestyle_preferences, hobbies, family_status,
	pet_preference, transportation_preference, preferred_location_type,
	max_commute_time_minutes, max_distance_miles, min_budget, max_budget,
	created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			name, email, age, gender, marital_status, education_level,
			income_level, occupation_type, lifestyle_preferences, hobbies,
			family_status, pet_preference, transportation_preference,
			preferred_location_type, max_commute_time_minutes, max_distance_miles,
			min_budget, max_budget
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		user.Name,
		user.Email,
		user.Age,
		user.Gender,
		user.MaritalStatus,
		user.EducationLevel,
		user.IncomeLevel,
		user.OccupationType,
		user.LifestylePreferences,
		user.Hobbies,
		user.FamilyStatus,
		user.PetPreference,
		user.TransportationPreference,
		user.PreferredLocationType,
		user.MaxCommuteTimeMinutes,
		user.MaxDistanceMiles,
		user.MinBudget,
		user.MaxBudget,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Age,
		&user.Gender,
		&user.MaritalStatus,
		&user.EducationLevel,
		&user.IncomeLevel,
		&user.OccupationType,
		&user.LifestylePreferences,
		&user.Hobbies,
		&user.FamilyStatus,
		&user.PetPreference,
		&user.TransportationPreference,
		&user.PreferredLocationType,
		&user.MaxCommuteTimeMinutes,
		&user.MaxDistanceMiles,
		&user.MinBudget,
		&user.MaxBudget,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ExistsByEmail reports whether any user has the given email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// List retrieves all users ordered by creation time
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	return r.queryUsers(ctx, query)
}

// ListByAgeRange retrieves users within an age range
func (r *UserRepository) ListByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE age BETWEEN $1 AND $2 ORDER BY age ASC`
	return r.queryUsers(ctx, query, minAge, maxAge)
}

// ListByIncomeLevel retrieves users with the given income level
func (r *UserRepository) ListByIncomeLevel(ctx context.Context, level models.IncomeLevel) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE income_level = $1 ORDER BY created_at ASC`
	return r.queryUsers(ctx, query, level)
}

// ListByFamilyStatus retrieves users with the given family status
func (r *UserRepository) ListByFamilyStatus(ctx context.Context, status models.FamilyStatus) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE family_status = $1 ORDER BY created_at ASC`
	return r.queryUsers(ctx, query, status)
}

// ListByLocationType retrieves users preferring the given location type
func (r *UserRepository) ListByLocationType(ctx context.Context, locationType models.LocationType) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE preferred_location_type = $1 ORDER BY created_at ASC`
	return r.queryUsers(ctx, query, locationType)
}

// Update updates a user's profile
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $2,
			email = $3,
			age = $4,
			gender = $5,
			marital_status = $6,
			education_level = $7,
			income_level = $8,
			occupation_type = $9,
			lifestyle_preferences = $10,
			hobbies = $11,
			family_status = $12,
			pet_preference = $13,
			transportation_preference = $14,
			preferred_location_type = $15,
			max_commute_time_minutes = $16,
			max_distance_miles = $17,
			min_budget = $18,
			max_budget = $19,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Age,
		user.Gender,
		user.MaritalStatus,
		user.EducationLevel,
		user.IncomeLevel,
		user.OccupationType,
		user.LifestylePreferences,
		user.Hobbies,
		user.FamilyStatus,
		user.PetPreference,
		user.TransportationPreference,
		user.PreferredLocationType,
		user.MaxCommuteTimeMinutes,
		user.MaxDistanceMiles,
		user.MinBudget,
		user.MaxBudget,
	).Scan(&user.UpdatedAt)
}

// Delete deletes a user; dependent match rows cascade at the database level
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
