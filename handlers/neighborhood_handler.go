package handlers

import (
	"net/http"
	"strconv"

	"neighborfit-backend/models"
	"neighborfit-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NeighborhoodHandler handles read access to neighborhood data
type NeighborhoodHandler struct {
	neighborhoods *repository.NeighborhoodRepository
}

// NewNeighborhoodHandler creates a new neighborhood handler
func NewNeighborhoodHandler(neighborhoods *repository.NeighborhoodRepository) *NeighborhoodHandler {
	return &NeighborhoodHandler{neighborhoods: neighborhoods}
}

// List handles GET /api/neighborhoods
func (h *NeighborhoodHandler) List(c *gin.Context) {
	neighborhoods, err := h.neighborhoods.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, neighborhoods)
}

// GetByID handles GET /api/neighborhoods/:id
func (h *NeighborhoodHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid neighborhood ID format")
		return
	}

	n, err := h.neighborhoods.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Neighborhood not found")
		return
	}

	respondData(c, http.StatusOK, n)
}

// Search handles GET /api/neighborhoods/search with optional filters:
// city+state, maxCrimeRate, minSafetyScore, minIncome+maxIncome,
// minHomeValue+maxHomeValue
func (h *NeighborhoodHandler) Search(c *gin.Context) {
	filter := models.NeighborhoodFilter{}

	parseFloat := func(name string) (*float64, bool) {
		raw := c.Query(name)
		if raw == "" {
			return nil, true
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a number")
			return nil, false
		}
		return &v, true
	}

	var ok bool
	if filter.MaxCrimeRate, ok = parseFloat("maxCrimeRate"); !ok {
		return
	}
	if filter.MinSafetyScore, ok = parseFloat("minSafetyScore"); !ok {
		return
	}
	if filter.MinMedianIncome, ok = parseFloat("minIncome"); !ok {
		return
	}
	if filter.MaxMedianIncome, ok = parseFloat("maxIncome"); !ok {
		return
	}
	if filter.MinMedianHomeValue, ok = parseFloat("minHomeValue"); !ok {
		return
	}
	if filter.MaxMedianHomeValue, ok = parseFloat("maxHomeValue"); !ok {
		return
	}

	// City search bypasses the generic filter
	if city := c.Query("city"); city != "" {
		neighborhoods, err := h.neighborhoods.ListByCityState(c.Request.Context(), city, c.Query("state"))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
			return
		}
		respondData(c, http.StatusOK, neighborhoods)
		return
	}

	neighborhoods, err := h.neighborhoods.ListForMatching(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, neighborhoods)
}
