package service

import (
	"context"

	"neighborfit-backend/models"

	"github.com/google/uuid"
)

// UserStore is the user data-access boundary the services depend on.
// Implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.User, error)
	ListByIncomeLevel(ctx context.Context, level models.IncomeLevel) ([]*models.User, error)
	ListByFamilyStatus(ctx context.Context, status models.FamilyStatus) ([]*models.User, error)
	ListByLocationType(ctx context.Context, locationType models.LocationType) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NeighborhoodStore is the candidate-retrieval boundary.
// Implemented by repository.NeighborhoodRepository.
type NeighborhoodStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Neighborhood, error)
	List(ctx context.Context) ([]*models.Neighborhood, error)
	ListForMatching(ctx context.Context, filter models.NeighborhoodFilter) ([]*models.Neighborhood, error)
}

// MatchStore is the match-persistence boundary.
// Upsert must replace score columns only, keeping any feedback already
// stored for the (user, neighborhood) pair, and refresh the passed match
// from the stored row. Implemented by repository.MatchRepository.
type MatchStore interface {
	Upsert(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Match, error)
	ListTopByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error)
	ListByStrength(ctx context.Context, strength models.MatchStrength) ([]*models.Match, error)
	ListByScoreRange(ctx context.Context, minScore, maxScore float64) ([]*models.Match, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Match, error)
	AverageScoreByUser(ctx context.Context, userID uuid.UUID) (*float64, error)
	AverageScoreByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID) (*float64, error)
	GlobalAverageScore(ctx context.Context) (*float64, error)
	CountByStrength(ctx context.Context) (map[models.MatchStrength]int, error)
	UpdateFeedback(ctx context.Context, id uuid.UUID, patch models.FeedbackPatch) error
}
