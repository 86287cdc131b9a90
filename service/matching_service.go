package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"neighborfit-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default page sizes when the caller omits a limit
const (
	DefaultMatchLimit        = 10
	DefaultTopMatchLimit     = 5
	DefaultBatchLimitPerUser = 5
	DefaultRecentLimit       = 10
	DefaultBatchWorkers      = 4
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidScoreRange = errors.New("score range must satisfy 0 <= min <= max <= 1")
	ErrNoNeighborhoods   = errors.New("no neighborhoods available for matching")
)

// MatchingService drives compatibility scoring and ranking
type MatchingService struct {
	users         UserStore
	neighborhoods NeighborhoodStore
	matches       MatchStore
	cfg           ScoringConfig
	batchWorkers  int
}

// MatchingServiceOption is a functional option for MatchingService
type MatchingServiceOption func(*MatchingService)

// MatchingWithUserStore sets the user store
func MatchingWithUserStore(store UserStore) MatchingServiceOption {
	return func(s *MatchingService) {
		s.users = store
	}
}

// MatchingWithNeighborhoodStore sets the neighborhood store
func MatchingWithNeighborhoodStore(store NeighborhoodStore) MatchingServiceOption {
	return func(s *MatchingService) {
		s.neighborhoods = store
	}
}

// MatchingWithMatchStore sets the match store
func MatchingWithMatchStore(store MatchStore) MatchingServiceOption {
	return func(s *MatchingService) {
		s.matches = store
	}
}

// MatchingWithScoringConfig overrides the default scoring constants
func MatchingWithScoringConfig(cfg ScoringConfig) MatchingServiceOption {
	return func(s *MatchingService) {
		s.cfg = cfg
	}
}

// MatchingWithBatchWorkers bounds the all-users batch worker pool
func MatchingWithBatchWorkers(n int) MatchingServiceOption {
	return func(s *MatchingService) {
		s.batchWorkers = n
	}
}

// NewMatchingService creates a matching service. The stores and scoring
// config are validated here so a bad deployment fails at startup, not per
// request.
func NewMatchingService(opts ...MatchingServiceOption) (*MatchingService, error) {
	s := &MatchingService{
		cfg:          DefaultScoringConfig(),
		batchWorkers: DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.users == nil || s.neighborhoods == nil || s.matches == nil {
		return nil, errors.New("matching service requires user, neighborhood and match stores")
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.batchWorkers <= 0 {
		s.batchWorkers = DefaultBatchWorkers
	}
	return s, nil
}

// MatchResult is a scored match with its neighborhood resolved, shaped for
// whatever transport the API layer maps it to
type MatchResult struct {
	Match        *models.Match        `json:"match"`
	Neighborhood *models.Neighborhood `json:"neighborhood,omitempty"`
	UserName     string               `json:"user_name,omitempty"`
}

// FindMatchesForUser scores every candidate neighborhood for the user,
// persists the top matches and returns them best first. Ordering is
// deterministic: overall score descending, neighborhood ID ascending on ties.
func (s *MatchingService) FindMatchesForUser(ctx context.Context, userID uuid.UUID, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	candidates, err := s.loadCandidates(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoNeighborhoods
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, n := range candidates {
		match, err := s.scoreCandidate(user, n)
		if err != nil {
			// A single bad candidate degrades, it does not abort the ranking
			log.Printf("Warning: skipping neighborhood %s for user %s: %v", n.ID, userID, err)
			continue
		}
		results = append(results, MatchResult{Match: match, Neighborhood: n, UserName: user.Name})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Match.OverallScore != results[j].Match.OverallScore {
			return results[i].Match.OverallScore > results[j].Match.OverallScore
		}
		return results[i].Match.NeighborhoodID.String() < results[j].Match.NeighborhoodID.String()
	})

	if len(results) > limit {
		results = results[:limit]
	}

	for _, r := range results {
		if err := s.matches.Upsert(ctx, r.Match); err != nil {
			return nil, fmt.Errorf("failed to persist match for neighborhood %s: %w", r.Match.NeighborhoodID, err)
		}
	}

	return results, nil
}

// loadCandidates pre-filters neighborhoods by the user's budget band to
// bound scoring cost, falling back to the full set when the filter is
// too narrow to return anything
func (s *MatchingService) loadCandidates(ctx context.Context, user *models.User) ([]*models.Neighborhood, error) {
	if user.MaxBudget > 0 {
		minValue := float64(user.MinBudget) * (1 - s.cfg.BudgetToleranceBand)
		maxValue := float64(user.MaxBudget) * (1 + s.cfg.BudgetToleranceBand)
		filtered, err := s.neighborhoods.ListForMatching(ctx, models.NeighborhoodFilter{
			MinMedianHomeValue: &minValue,
			MaxMedianHomeValue: &maxValue,
		})
		if err != nil {
			return nil, fmt.Errorf("candidate retrieval failed: %w", err)
		}
		if len(filtered) > 0 {
			return filtered, nil
		}
	}

	all, err := s.neighborhoods.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidate retrieval failed: %w", err)
	}
	return all, nil
}

// scoreCandidate scores one pair. Scoring is pure arithmetic; a panic here
// means the candidate record is malformed, so it is converted to an error
// for the caller to log and skip.
func (s *MatchingService) scoreCandidate(user *models.User, n *models.Neighborhood) (match *models.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = nil
			err = fmt.Errorf("scoring fault: %v", r)
		}
	}()
	if n == nil {
		return nil, errors.New("nil neighborhood")
	}
	return buildMatch(user, n, s.cfg), nil
}

// UserBatchResult summarizes one user's slice of a batch run
type UserBatchResult struct {
	UserID  uuid.UUID `json:"user_id"`
	Matches int       `json:"matches"`
	Error   string    `json:"error,omitempty"`
}

// BatchReport is the outcome of an all-users matching run. A failure for
// one user never aborts the others; it is recorded here instead.
type BatchReport struct {
	Results   []MatchResult     `json:"results"`
	Users     []UserBatchResult `json:"users"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// FindMatchesForAllUsers runs the single-user flow for every user on a
// bounded worker pool. Per-user scoring is independent, so users proceed
// concurrently; cancellation stops dispatching new users and the skipped
// users are recorded as failed in the report.
func (s *MatchingService) FindMatchesForAllUsers(ctx context.Context, limitPerUser int) (*BatchReport, error) {
	if limitPerUser <= 0 {
		limitPerUser = DefaultBatchLimitPerUser
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	perUser := make([][]MatchResult, len(users))
	report := &BatchReport{Users: make([]UserBatchResult, len(users))}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)

	dispatched := len(users)
	for i, user := range users {
		if gctx.Err() != nil {
			dispatched = i
			break
		}
		i, user := i, user
		g.Go(func() error {
			results, err := s.FindMatchesForUser(gctx, user.ID, limitPerUser)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Warning: matching failed for user %s: %v", user.ID, err)
				report.Users[i] = UserBatchResult{UserID: user.ID, Error: err.Error()}
				report.Failed++
				return nil
			}
			perUser[i] = results
			report.Users[i] = UserBatchResult{UserID: user.ID, Matches: len(results)}
			report.Succeeded++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Users never dispatched because of cancellation are failures, not
	// empty successes; the report must account for every listed user.
	if err := ctx.Err(); err != nil {
		for i := dispatched; i < len(users); i++ {
			report.Users[i] = UserBatchResult{UserID: users[i].ID, Error: err.Error()}
			report.Failed++
		}
	}

	for _, results := range perUser {
		report.Results = append(report.Results, results...)
	}

	return report, nil
}

// GetMatchHistoryForUser returns every persisted match for a user, best first
func (s *MatchingService) GetMatchHistoryForUser(ctx context.Context, userID uuid.UUID) ([]*models.Match, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.matches.ListByUser(ctx, userID)
}

// GetTopMatchesForUser returns a user's best persisted matches up to limit
func (s *MatchingService) GetTopMatchesForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = DefaultTopMatchLimit
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.matches.ListTopByUser(ctx, userID, limit)
}

// GetMatchesByStrength returns all matches in a strength band
func (s *MatchingService) GetMatchesByStrength(ctx context.Context, strength models.MatchStrength) ([]*models.Match, error) {
	return s.matches.ListByStrength(ctx, strength)
}

// GetMatchesByScoreRange returns matches with overall score in [minScore, maxScore]
func (s *MatchingService) GetMatchesByScoreRange(ctx context.Context, minScore, maxScore float64) ([]*models.Match, error) {
	if minScore < 0 || maxScore > 1 || minScore > maxScore {
		return nil, ErrInvalidScoreRange
	}
	return s.matches.ListByScoreRange(ctx, minScore, maxScore)
}

// GetRecentMatches returns the most recently computed matches
func (s *MatchingService) GetRecentMatches(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.matches.ListRecent(ctx, limit)
}

// UpdateMatchFeedback applies a partial feedback update. Score fields are
// never recomputed here; an out-of-range rating is rejected before any write.
func (s *MatchingService) UpdateMatchFeedback(ctx context.Context, matchID uuid.UUID, patch models.FeedbackPatch) error {
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return ErrInvalidRating
	}

	if _, err := s.matches.GetByID(ctx, matchID); err != nil {
		return ErrMatchNotFound
	}

	if patch.IsEmpty() {
		return nil
	}

	if err := s.matches.UpdateFeedback(ctx, matchID, patch); err != nil {
		return fmt.Errorf("failed to update feedback for match %s: %w", matchID, err)
	}
	return nil
}

// MatchAnalytics aggregates counts per strength band and the mean score
type MatchAnalytics struct {
	TotalMatches     int                          `json:"total_matches"`
	CountsByStrength map[models.MatchStrength]int `json:"counts_by_strength"`
	AverageScore     float64                      `json:"average_score"`
}

// GetMatchAnalytics reduces all persisted matches into summary statistics
func (s *MatchingService) GetMatchAnalytics(ctx context.Context) (*MatchAnalytics, error) {
	counts, err := s.matches.CountByStrength(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	analytics := &MatchAnalytics{CountsByStrength: counts}
	for _, count := range counts {
		analytics.TotalMatches += count
	}

	avg, err := s.matches.GlobalAverageScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	if avg != nil {
		analytics.AverageScore = *avg
	}

	return analytics, nil
}

// GetAverageScoreForUser returns the mean overall score of a user's matches
func (s *MatchingService) GetAverageScoreForUser(ctx context.Context, userID uuid.UUID) (*float64, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.matches.AverageScoreByUser(ctx, userID)
}

// GetAverageScoreForNeighborhood returns the mean overall score of a
// neighborhood's matches
func (s *MatchingService) GetAverageScoreForNeighborhood(ctx context.Context, neighborhoodID uuid.UUID) (*float64, error) {
	return s.matches.AverageScoreByNeighborhood(ctx, neighborhoodID)
}
