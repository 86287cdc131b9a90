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

// UserHandler handles HTTP requests for user management
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserRequest is the request body for registering or updating a user
type UserRequest struct {
	Name                     string                          `json:"name" binding:"required"`
	Email                    string                          `json:"email" binding:"required"`
	Age                      int                             `json:"age" binding:"required"`
	Gender                   models.Gender                   `json:"gender"`
	MaritalStatus            models.MaritalStatus            `json:"marital_status"`
	EducationLevel           models.EducationLevel           `json:"education_level"`
	IncomeLevel              models.IncomeLevel              `json:"income_level"`
	OccupationType           models.OccupationType           `json:"occupation_type"`
	LifestylePreferences     models.LifestylePreferenceList  `json:"lifestyle_preferences"`
	Hobbies                  models.HobbyList                `json:"hobbies"`
	FamilyStatus             models.FamilyStatus             `json:"family_status"`
	PetPreference            models.PetPreference            `json:"pet_preference"`
	TransportationPreference models.TransportationPreference `json:"transportation_preference"`
	PreferredLocationType    models.LocationType             `json:"preferred_location_type"`
	MaxCommuteTimeMinutes    int                             `json:"max_commute_time_minutes"`
	MaxDistanceMiles         int                             `json:"max_distance_miles"`
	MinBudget                int                             `json:"min_budget"`
	MaxBudget                int                             `json:"max_budget"`
}

func (req *UserRequest) toUser() *models.User {
	return &models.User{
		Name:                     req.Name,
		Email:                    req.Email,
		Age:                      req.Age,
		Gender:                   req.Gender,
		MaritalStatus:            req.MaritalStatus,
		EducationLevel:           req.EducationLevel,
		IncomeLevel:              req.IncomeLevel,
		OccupationType:           req.OccupationType,
		LifestylePreferences:     req.LifestylePreferences,
		Hobbies:                  req.Hobbies,
		FamilyStatus:             req.FamilyStatus,
		PetPreference:            req.PetPreference,
		TransportationPreference: req.TransportationPreference,
		PreferredLocationType:    req.PreferredLocationType,
		MaxCommuteTimeMinutes:    req.MaxCommuteTimeMinutes,
		MaxDistanceMiles:         req.MaxDistanceMiles,
		MinBudget:                req.MinBudget,
		MaxBudget:                req.MaxBudget,
	}
}

// Register handles POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := req.toUser()
	if err := h.users.Register(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
		case errors.Is(err, service.ErrInvalidBudgetRange), errors.Is(err, service.ErrInvalidProfile):
			respondError(c, http.StatusBadRequest, "INVALID_PROFILE", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		}
		return
	}

	respondData(c, http.StatusCreated, user)
}

// GetByID handles GET /api/users/:userId
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// GetByEmail handles GET /api/users/email/:email
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, users)
}

// ListByAgeRange handles GET /api/users/age?minAge=&maxAge=
func (h *UserHandler) ListByAgeRange(c *gin.Context) {
	minAge, err1 := strconv.Atoi(c.Query("minAge"))
	maxAge, err2 := strconv.Atoi(c.Query("maxAge"))
	if err1 != nil || err2 != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "minAge and maxAge must be integers")
		return
	}

	users, err := h.users.ListByAgeRange(c.Request.Context(), minAge, maxAge)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, users)
}

// ListByIncomeLevel handles GET /api/users/income/:level
func (h *UserHandler) ListByIncomeLevel(c *gin.Context) {
	users, err := h.users.ListByIncomeLevel(c.Request.Context(), models.IncomeLevel(c.Param("level")))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, users)
}

// ListByFamilyStatus handles GET /api/users/family/:status
func (h *UserHandler) ListByFamilyStatus(c *gin.Context) {
	users, err := h.users.ListByFamilyStatus(c.Request.Context(), models.FamilyStatus(c.Param("status")))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, users)
}

// ListByLocationType handles GET /api/users/location/:type
func (h *UserHandler) ListByLocationType(c *gin.Context) {
	users, err := h.users.ListByLocationType(c.Request.Context(), models.LocationType(c.Param("type")))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, users)
}

// Update handles PUT /api/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := req.toUser()
	user.ID = userID

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
		case errors.Is(err, service.ErrInvalidBudgetRange), errors.Is(err, service.ErrInvalidProfile):
			respondError(c, http.StatusBadRequest, "INVALID_PROFILE", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", err.Error())
		}
		return
	}

	respondData(c, http.StatusOK, user)
}

// Delete handles DELETE /api/users/:userId
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// ValidateForMatching handles GET /api/users/:userId/matching-ready
func (h *UserHandler) ValidateForMatching(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID format")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"valid": h.users.ValidateForMatching(user)})
}
