package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"neighborfit-backend/models"
	"neighborfit-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserStore serves a single fixed user
type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, errors.New("no rows in result set")
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, errors.New("no rows in result set")
}

func (s *stubUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.user != nil && s.user.Email == email, nil
}

func (s *stubUserStore) List(ctx context.Context) ([]*models.User, error) {
	if s.user == nil {
		return nil, nil
	}
	return []*models.User{s.user}, nil
}

func (s *stubUserStore) ListByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.User, error) {
	return s.List(ctx)
}

func (s *stubUserStore) ListByIncomeLevel(ctx context.Context, level models.IncomeLevel) ([]*models.User, error) {
	return s.List(ctx)
}

func (s *stubUserStore) ListByFamilyStatus(ctx context.Context, status models.FamilyStatus) ([]*models.User, error) {
	return s.List(ctx)
}

func (s *stubUserStore) ListByLocationType(ctx context.Context, locationType models.LocationType) ([]*models.User, error) {
	return s.List(ctx)
}

func (s *stubUserStore) Update(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserStore) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

// stubNeighborhoodStore serves a fixed candidate set
type stubNeighborhoodStore struct {
	neighborhoods []*models.Neighborhood
}

func (s *stubNeighborhoodStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Neighborhood, error) {
	for _, n := range s.neighborhoods {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, errors.New("no rows in result set")
}

func (s *stubNeighborhoodStore) List(ctx context.Context) ([]*models.Neighborhood, error) {
	return s.neighborhoods, nil
}

func (s *stubNeighborhoodStore) ListForMatching(ctx context.Context, filter models.NeighborhoodFilter) ([]*models.Neighborhood, error) {
	return s.neighborhoods, nil
}

// stubMatchStore records upserts and serves a fixed match for feedback tests
type stubMatchStore struct {
	match    *models.Match
	upserted []*models.Match
	patches  []models.FeedbackPatch
}

func (s *stubMatchStore) Upsert(ctx context.Context, match *models.Match) error {
	match.ID = uuid.New()
	s.upserted = append(s.upserted, match)
	return nil
}

func (s *stubMatchStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	if s.match != nil && s.match.ID == id {
		return s.match, nil
	}
	return nil, errors.New("no rows in result set")
}

func (s *stubMatchStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Match, error) {
	return s.upserted, nil
}

func (s *stubMatchStore) ListTopByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error) {
	if len(s.upserted) > limit {
		return s.upserted[:limit], nil
	}
	return s.upserted, nil
}

func (s *stubMatchStore) ListByStrength(ctx context.Context, strength models.MatchStrength) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubMatchStore) ListByScoreRange(ctx context.Context, minScore, maxScore float64) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubMatchStore) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	return s.upserted, nil
}

func (s *stubMatchStore) AverageScoreByUser(ctx context.Context, userID uuid.UUID) (*float64, error) {
	return nil, nil
}

func (s *stubMatchStore) AverageScoreByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID) (*float64, error) {
	return nil, nil
}

func (s *stubMatchStore) GlobalAverageScore(ctx context.Context) (*float64, error) {
	return nil, nil
}

func (s *stubMatchStore) CountByStrength(ctx context.Context) (map[models.MatchStrength]int, error) {
	return map[models.MatchStrength]int{}, nil
}

func (s *stubMatchStore) UpdateFeedback(ctx context.Context, id uuid.UUID, patch models.FeedbackPatch) error {
	s.patches = append(s.patches, patch)
	return nil
}

func matchingTestUser() *models.User {
	return &models.User{
		ID:                       uuid.New(),
		Name:                     "Sarah Johnson",
		Email:                    "sarah.johnson@email.com",
		Age:                      28,
		FamilyStatus:             models.FamilySingle,
		TransportationPreference: models.TransportPublicTransit,
		MaxCommuteTimeMinutes:    30,
		MinBudget:                300000,
		MaxBudget:                600000,
	}
}

func matchingTestNeighborhoods(count int) []*models.Neighborhood {
	neighborhoods := make([]*models.Neighborhood, 0, count)
	for i := 0; i < count; i++ {
		neighborhoods = append(neighborhoods, &models.Neighborhood{
			ID:                 uuid.New(),
			Name:               "Test Neighborhood",
			MedianAge:          30,
			MedianHomeValue:    400000 + float64(i)*50000,
			CommuteTimeMinutes: 25,
			SafetyScore:        8,
			TransitScore:       80,
		})
	}
	return neighborhoods
}

func newMatchingRouter(t *testing.T, users *stubUserStore, neighborhoods *stubNeighborhoodStore, matches *stubMatchStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := service.NewMatchingService(
		service.MatchingWithUserStore(users),
		service.MatchingWithNeighborhoodStore(neighborhoods),
		service.MatchingWithMatchStore(matches),
	)
	require.NoError(t, err)

	h := NewMatchingHandler(svc)

	r := gin.New()
	matching := r.Group("/api/matching")
	{
		matching.POST("/users/:userId/find", h.FindMatchesForUser)
		matching.POST("/batch", h.FindMatchesForAllUsers)
		matching.GET("/users/:userId/matches", h.GetMatchHistory)
		matching.GET("/users/:userId/top", h.GetTopMatches)
		matching.GET("/matches/strength/:strength", h.GetMatchesByStrength)
		matching.GET("/matches/score-range", h.GetMatchesByScoreRange)
		matching.PUT("/matches/:matchId/feedback", h.UpdateMatchFeedback)
		matching.GET("/analytics", h.GetMatchAnalytics)
	}
	return r
}

// envelope mirrors the API response shape
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestFindMatchesForUserEndpoint(t *testing.T) {
	user := matchingTestUser()
	matches := &stubMatchStore{}
	r := newMatchingRouter(t, &stubUserStore{user: user},
		&stubNeighborhoodStore{neighborhoods: matchingTestNeighborhoods(4)}, matches)

	t.Run("returns ranked matches", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost,
			"/api/matching/users/"+user.ID.String()+"/find?limit=2", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var results []service.MatchResult
		require.NoError(t, json.Unmarshal(env.Data, &results))
		assert.Len(t, results, 2)
		assert.Len(t, matches.upserted, 2)
	})

	t.Run("invalid user ID", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/api/matching/users/not-a-uuid/find", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_ID", env.Error.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost,
			"/api/matching/users/"+uuid.NewString()+"/find", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestFindMatchesForUserEndpointNoCandidates(t *testing.T) {
	user := matchingTestUser()
	r := newMatchingRouter(t, &stubUserStore{user: user},
		&stubNeighborhoodStore{}, &stubMatchStore{})

	w, env := doRequest(t, r, http.MethodPost,
		"/api/matching/users/"+user.ID.String()+"/find", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_CANDIDATES", env.Error.Code)
}

func TestBatchMatchingEndpoint(t *testing.T) {
	user := matchingTestUser()
	r := newMatchingRouter(t, &stubUserStore{user: user},
		&stubNeighborhoodStore{neighborhoods: matchingTestNeighborhoods(3)}, &stubMatchStore{})

	w, env := doRequest(t, r, http.MethodPost, "/api/matching/batch?limitPerUser=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var report service.BatchReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Len(t, report.Results, 2)
}

func TestGetTopMatchesEndpoint(t *testing.T) {
	user := matchingTestUser()
	matches := &stubMatchStore{}
	r := newMatchingRouter(t, &stubUserStore{user: user},
		&stubNeighborhoodStore{neighborhoods: matchingTestNeighborhoods(3)}, matches)

	// Populate via the find endpoint first
	w, _ := doRequest(t, r, http.MethodPost,
		"/api/matching/users/"+user.ID.String()+"/find?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodGet,
		"/api/matching/users/"+user.ID.String()+"/top?limit=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var top []*models.Match
	require.NoError(t, json.Unmarshal(env.Data, &top))
	assert.Len(t, top, 2)
}

func TestGetMatchesByStrengthEndpoint(t *testing.T) {
	r := newMatchingRouter(t, &stubUserStore{}, &stubNeighborhoodStore{}, &stubMatchStore{})

	t.Run("valid strength", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/api/matching/matches/strength/EXCELLENT", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("unknown strength", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/api/matching/matches/strength/AMAZING", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STRENGTH", env.Error.Code)
	})
}

func TestGetMatchesByScoreRangeEndpoint(t *testing.T) {
	r := newMatchingRouter(t, &stubUserStore{}, &stubNeighborhoodStore{}, &stubMatchStore{})

	t.Run("defaults cover the full range", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/api/matching/matches/score-range", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("inverted range", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/api/matching/matches/score-range?min=0.9&max=0.1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_RANGE", env.Error.Code)
	})

	t.Run("non-numeric bound", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/api/matching/matches/score-range?min=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_RANGE", env.Error.Code)
	})
}

func TestUpdateMatchFeedbackEndpoint(t *testing.T) {
	match := &models.Match{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		NeighborhoodID: uuid.New(),
		MatchStrength:  models.StrengthGood,
	}
	matches := &stubMatchStore{match: match}
	r := newMatchingRouter(t, &stubUserStore{}, &stubNeighborhoodStore{}, matches)

	t.Run("applies a valid patch", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"liked": true, "rating": 4})
		w, env := doRequest(t, r, http.MethodPut,
			"/api/matching/matches/"+match.ID.String()+"/feedback", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		require.Len(t, matches.patches, 1)
		require.NotNil(t, matches.patches[0].Rating)
		assert.Equal(t, 4, *matches.patches[0].Rating)
	})

	t.Run("rejects an out-of-range rating", func(t *testing.T) {
		patchesBefore := len(matches.patches)
		body, _ := json.Marshal(map[string]interface{}{"rating": 9})
		w, env := doRequest(t, r, http.MethodPut,
			"/api/matching/matches/"+match.ID.String()+"/feedback", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_RATING", env.Error.Code)
		assert.Len(t, matches.patches, patchesBefore, "no write may happen on a rejected rating")
	})

	t.Run("unknown match", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"liked": true})
		w, env := doRequest(t, r, http.MethodPut,
			"/api/matching/matches/"+uuid.NewString()+"/feedback", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestGetMatchAnalyticsEndpoint(t *testing.T) {
	r := newMatchingRouter(t, &stubUserStore{}, &stubNeighborhoodStore{}, &stubMatchStore{})

	w, env := doRequest(t, r, http.MethodGet, "/api/matching/analytics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var analytics service.MatchAnalytics
	require.NoError(t, json.Unmarshal(env.Data, &analytics))
	assert.Zero(t, analytics.TotalMatches)
}
