package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchStrength classifies an overall score into a discrete band
type MatchStrength string

const (
	StrengthExcellent MatchStrength = "EXCELLENT"
	StrengthGood      MatchStrength = "GOOD"
	StrengthFair      MatchStrength = "FAIR"
	StrengthPoor      MatchStrength = "POOR"
)

// ParseMatchStrength converts a path/query value into a MatchStrength
func ParseMatchStrength(s string) (MatchStrength, error) {
	switch MatchStrength(s) {
	case StrengthExcellent, StrengthGood, StrengthFair, StrengthPoor:
		return MatchStrength(s), nil
	}
	return "", fmt.Errorf("unknown match strength: %q", s)
}

// Match links a user to a neighborhood with compatibility scores.
// One row exists per (user, neighborhood) pair; re-scoring updates the
// score columns in place and leaves the feedback columns untouched.
type Match struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	NeighborhoodID uuid.UUID `json:"neighborhood_id"`

	// Scores, each in [0,1]
	LifestyleScore   float64 `json:"lifestyle_score"`
	DemographicScore float64 `json:"demographic_score"`
	LocationScore    float64 `json:"location_score"`
	BudgetScore      float64 `json:"budget_score"`
	OverallScore     float64 `json:"overall_score"`

	MatchStrength MatchStrength `json:"match_strength"`

	// Feedback, set only through the feedback endpoint
	UserLiked    *bool   `json:"user_liked,omitempty"`
	UserVisited  *bool   `json:"user_visited,omitempty"`
	UserRating   *int    `json:"user_rating,omitempty"`
	UserFeedback *string `json:"user_feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedbackPatch is a partial feedback update; nil fields are left unchanged
type FeedbackPatch struct {
	Liked    *bool   `json:"liked"`
	Visited  *bool   `json:"visited"`
	Rating   *int    `json:"rating"`
	Feedback *string `json:"feedback"`
}

// IsEmpty reports whether the patch changes nothing
func (p FeedbackPatch) IsEmpty() bool {
	return p.Liked == nil && p.Visited == nil && p.Rating == nil && p.Feedback == nil
}
