package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"neighborfit-backend/models"
	"neighborfit-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MatchingHandler handles HTTP requests for matching operations
type MatchingHandler struct {
	matching *service.MatchingService
}

// NewMatchingHandler creates a new matching handler
func NewMatchingHandler(matching *service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matching: matching}
}

// parseLimit reads an integer query parameter, falling back on bad input
func parseLimit(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// FindMatchesForUser handles POST /api/matching/users/:userId/find
func (h *MatchingHandler) FindMatchesForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	limit := parseLimit(c, "limit", service.DefaultMatchLimit)

	results, err := h.matching.FindMatchesForUser(c.Request.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrNoNeighborhoods):
			respondError(c, http.StatusConflict, "NO_CANDIDATES", "No neighborhoods available for matching")
		default:
			respondError(c, http.StatusInternalServerError, "MATCHING_FAILED", err.Error())
		}
		return
	}

	respondData(c, http.StatusOK, results)
}

// FindMatchesForAllUsers handles POST /api/matching/batch
func (h *MatchingHandler) FindMatchesForAllUsers(c *gin.Context) {
	limitPerUser := parseLimit(c, "limitPerUser", service.DefaultBatchLimitPerUser)

	report, err := h.matching.FindMatchesForAllUsers(c.Request.Context(), limitPerUser)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "MATCHING_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, report)
}

// GetMatchHistory handles GET /api/matching/users/:userId/matches
func (h *MatchingHandler) GetMatchHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	matches, err := h.matching.GetMatchHistoryForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, matches)
}

// GetTopMatches handles GET /api/matching/users/:userId/top
func (h *MatchingHandler) GetTopMatches(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	limit := parseLimit(c, "limit", service.DefaultTopMatchLimit)

	matches, err := h.matching.GetTopMatchesForUser(c.Request.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, matches)
}

// GetMatchesByStrength handles GET /api/matching/matches/strength/:strength
func (h *MatchingHandler) GetMatchesByStrength(c *gin.Context) {
	strength, err := models.ParseMatchStrength(c.Param("strength"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STRENGTH", err.Error())
		return
	}

	matches, err := h.matching.GetMatchesByStrength(c.Request.Context(), strength)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, matches)
}

// GetMatchesByScoreRange handles GET /api/matching/matches/score-range
func (h *MatchingHandler) GetMatchesByScoreRange(c *gin.Context) {
	minScore, err := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_RANGE", "min must be a number")
		return
	}
	maxScore, err := strconv.ParseFloat(c.DefaultQuery("max", "1"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_RANGE", "max must be a number")
		return
	}

	matches, err := h.matching.GetMatchesByScoreRange(c.Request.Context(), minScore, maxScore)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScoreRange) {
			respondError(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, matches)
}

// GetRecentMatches handles GET /api/matching/matches/recent
func (h *MatchingHandler) GetRecentMatches(c *gin.Context) {
	limit := parseLimit(c, "limit", service.DefaultRecentLimit)

	matches, err := h.matching.GetRecentMatches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, matches)
}

// UpdateMatchFeedback handles PUT /api/matching/matches/:matchId/feedback
func (h *MatchingHandler) UpdateMatchFeedback(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid match ID format")
		return
	}

	var patch models.FeedbackPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.matching.UpdateMatchFeedback(c.Request.Context(), matchID, patch); err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Match not found")
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "INVALID_RATING", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", err.Error())
		}
		return
	}

	respondData(c, http.StatusOK, gin.H{"updated": true})
}

// GetMatchAnalytics handles GET /api/matching/analytics
func (h *MatchingHandler) GetMatchAnalytics(c *gin.Context) {
	analytics, err := h.matching.GetMatchAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, analytics)
}
