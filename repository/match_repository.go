package repository

import (
	"context"
	"fmt"

	"neighborfit-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const matchColumns = `id, user_id, neighborhood_id,
	lifestyle_score, demographic_score, location_score, budget_score, overall_score,
	match_strength, user_liked, user_visited, user_rating, user_feedback,
	created_at, updated_at`

// MatchRepository handles database operations for matches
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert writes a match for a (user, neighborhood) pair. On conflict only
// the score columns are replaced; feedback columns are retained, which is
// what makes re-scoring safe to run over pairs that already carry feedback.
// The match is refreshed from the stored row, including any prior feedback.
func (r *MatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (
			user_id, neighborhood_id,
			lifestyle_score, demographic_score, location_score, budget_score,
			overall_score, match_strength
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (user_id, neighborhood_id) DO UPDATE SET
			lifestyle_score = EXCLUDED.lifestyle_score,
			demographic_score = EXCLUDED.demographic_score,
			location_score = EXCLUDED.location_score,
			budget_score = EXCLUDED.budget_score,
			overall_score = EXCLUDED.overall_score,
			match_strength = EXCLUDED.match_strength,
			updated_at = NOW()
		RETURNING id, user_liked, user_visited, user_rating, user_feedback, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		match.UserID,
		match.NeighborhoodID,
		match.LifestyleScore,
		match.DemographicScore,
		match.LocationScore,
		match.BudgetScore,
		match.OverallScore,
		match.MatchStrength,
	).Scan(
		&match.ID,
		&match.UserLiked,
		&match.UserVisited,
		&match.UserRating,
		&match.UserFeedback,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.NeighborhoodID,
		&m.LifestyleScore,
		&m.DemographicScore,
		&m.LocationScore,
		&m.BudgetScore,
		&m.OverallScore,
		&m.MatchStrength,
		&m.UserLiked,
		&m.UserVisited,
		&m.UserRating,
		&m.UserFeedback,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.db.QueryRow(ctx, query, id))
}

// ListByUser retrieves all matches for a user, best first
func (r *MatchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE user_id = $1
		ORDER BY overall_score DESC, neighborhood_id ASC`
	return r.queryMatches(ctx, query, userID)
}

// ListTopByUser retrieves the best matches for a user up to limit
func (r *MatchRepository) ListTopByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE user_id = $1
		ORDER BY overall_score DESC, neighborhood_id ASC
		LIMIT $2`
	return r.queryMatches(ctx, query, userID, limit)
}

// ListByStrength retrieves matches with a given strength band
func (r *MatchRepository) ListByStrength(ctx context.Context, strength models.MatchStrength) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE match_strength = $1
		ORDER BY overall_score DESC, neighborhood_id ASC`
	return r.queryMatches(ctx, query, strength)
}

// ListByScoreRange retrieves matches whose overall score lies in [minScore, maxScore]
func (r *MatchRepository) ListByScoreRange(ctx context.Context, minScore, maxScore float64) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE overall_score BETWEEN $1 AND $2
		ORDER BY overall_score DESC, neighborhood_id ASC`
	return r.queryMatches(ctx, query, minScore, maxScore)
}

// ListRecent retrieves the most recently computed matches
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		ORDER BY created_at DESC
		LIMIT $1`
	return r.queryMatches(ctx, query, limit)
}

// ListRated retrieves matches that carry a user rating, best rated first
func (r *MatchRepository) ListRated(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE user_rating IS NOT NULL
		ORDER BY user_rating DESC, updated_at DESC`
	return r.queryMatches(ctx, query)
}

func (r *MatchRepository) listByComponentFloor(ctx context.Context, column string, floor float64) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE ` + column + ` >= $1
		ORDER BY ` + column + ` DESC, neighborhood_id ASC`
	return r.queryMatches(ctx, query, floor)
}

// ListByMinLifestyleScore retrieves matches at or above a lifestyle-score floor
func (r *MatchRepository) ListByMinLifestyleScore(ctx context.Context, floor float64) ([]*models.Match, error) {
	return r.listByComponentFloor(ctx, "lifestyle_score", floor)
}

// ListByMinDemographicScore retrieves matches at or above a demographic-score floor
func (r *MatchRepository) ListByMinDemographicScore(ctx context.Context, floor float64) ([]*models.Match, error) {
	return r.listByComponentFloor(ctx, "demographic_score", floor)
}

// ListByMinLocationScore retrieves matches at or above a location-score floor
func (r *MatchRepository) ListByMinLocationScore(ctx context.Context, floor float64) ([]*models.Match, error) {
	return r.listByComponentFloor(ctx, "location_score", floor)
}

// ListByMinBudgetScore retrieves matches at or above a budget-score floor
func (r *MatchRepository) ListByMinBudgetScore(ctx context.Context, floor float64) ([]*models.Match, error) {
	return r.listByComponentFloor(ctx, "budget_score", floor)
}

// AverageScoreByUser returns the mean overall score of a user's matches,
// or nil when the user has none
func (r *MatchRepository) AverageScoreByUser(ctx context.Context, userID uuid.UUID) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT AVG(overall_score) FROM matches WHERE user_id = $1`, userID).Scan(&avg)
	return avg, err
}

// AverageScoreByNeighborhood returns the mean overall score of a neighborhood's
// matches, or nil when it has none
func (r *MatchRepository) AverageScoreByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT AVG(overall_score) FROM matches WHERE neighborhood_id = $1`, neighborhoodID).Scan(&avg)
	return avg, err
}

// GlobalAverageScore returns the mean overall score across all matches,
// or nil when there are none
func (r *MatchRepository) GlobalAverageScore(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT AVG(overall_score) FROM matches`).Scan(&avg)
	return avg, err
}

// CountByStrength returns match counts grouped by strength band
func (r *MatchRepository) CountByStrength(ctx context.Context) (map[models.MatchStrength]int, error) {
	rows, err := r.db.Query(ctx, `SELECT match_strength, COUNT(*) FROM matches GROUP BY match_strength`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.MatchStrength]int)
	for rows.Next() {
		var strength models.MatchStrength
		var count int
		if err := rows.Scan(&strength, &count); err != nil {
			return nil, err
		}
		counts[strength] = count
	}

	return counts, rows.Err()
}

// UpdateFeedback applies a partial feedback update to a match. Only the
// fields set in the patch are written; score columns are never touched here.
func (r *MatchRepository) UpdateFeedback(ctx context.Context, id uuid.UUID, patch models.FeedbackPatch) error {
	query := `UPDATE matches SET updated_at = NOW()`

	args := []interface{}{id}
	argIndex := 2

	if patch.Liked != nil {
		query += fmt.Sprintf(", user_liked = $%d", argIndex)
		args = append(args, *patch.Liked)
		argIndex++
	}
	if patch.Visited != nil {
		query += fmt.Sprintf(", user_visited = $%d", argIndex)
		args = append(args, *patch.Visited)
		argIndex++
	}
	if patch.Rating != nil {
		query += fmt.Sprintf(", user_rating = $%d", argIndex)
		args = append(args, *patch.Rating)
		argIndex++
	}
	if patch.Feedback != nil {
		query += fmt.Sprintf(", user_feedback = $%d", argIndex)
		args = append(args, *patch.Feedback)
		argIndex++
	}

	query += ` WHERE id = $1 RETURNING id`

	var updatedID uuid.UUID
	return r.db.QueryRow(ctx, query, args...).Scan(&updatedID)
}
