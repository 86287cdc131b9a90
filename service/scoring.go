package service

import (
	"errors"
	"fmt"
	"math"

	"neighborfit-backend/models"
)

// ScoringConfig holds every weight, threshold and tolerance used by the
// matching engine. Changing scoring behavior means changing this struct,
// not code, so each change is auditable and testable in isolation.
type ScoringConfig struct {
	// Aggregate weights over the four subscores; must sum to 1.0
	LifestyleWeight   float64
	DemographicWeight float64
	LocationWeight    float64
	BudgetWeight      float64

	// Lifestyle subscore
	LifestylePrimaryWeight   float64 // preference/characteristic overlap
	LifestyleSecondaryWeight float64 // hobby/amenity affinity
	NeutralBaseline          float64 // primary term when the user set no preferences

	// Demographic subscore
	AgeNormalizationYears  float64 // age gap producing a zero age term
	AgeTermWeight          float64
	FamilyTermWeight       float64
	FamilyAffinityBaseline float64 // family term when no tag aligns

	// Location subscore; weights renormalize when the school term is excluded
	CommuteTermWeight   float64
	MobilityTermWeight  float64
	SafetyTermWeight    float64
	SchoolTermWeight    float64
	CarMobilityNeutral  float64 // car preference, no parking/highway signal
	CarMobilityWithRoad float64 // car preference with parking or highway access

	// Budget subscore
	BudgetToleranceBand float64 // fractional overshoot at which the score hits 0

	// Strength bands over the overall score
	ExcellentThreshold float64
	GoodThreshold      float64
	FairThreshold      float64
}

// DefaultScoringConfig returns the production scoring constants
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		LifestyleWeight:   0.30,
		DemographicWeight: 0.20,
		LocationWeight:    0.30,
		BudgetWeight:      0.20,

		LifestylePrimaryWeight:   0.7,
		LifestyleSecondaryWeight: 0.3,
		NeutralBaseline:          0.5,

		AgeNormalizationYears:  30,
		AgeTermWeight:          0.5,
		FamilyTermWeight:       0.5,
		FamilyAffinityBaseline: 0.4,

		CommuteTermWeight:   0.35,
		MobilityTermWeight:  0.25,
		SafetyTermWeight:    0.25,
		SchoolTermWeight:    0.15,
		CarMobilityNeutral:  0.5,
		CarMobilityWithRoad: 0.8,

		BudgetToleranceBand: 0.25,

		ExcellentThreshold: 0.85,
		GoodThreshold:      0.65,
		FairThreshold:      0.45,
	}
}

// ErrInvalidScoringConfig indicates a config that would produce scores
// that are not comparable across users
var ErrInvalidScoringConfig = errors.New("invalid scoring config")

// Validate checks the config invariants. Aggregate weights summing to 1.0
// keeps overall scores comparable across users, so it is a hard error.
func (c ScoringConfig) Validate() error {
	sum := c.LifestyleWeight + c.DemographicWeight + c.LocationWeight + c.BudgetWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: aggregate weights sum to %v, want 1.0", ErrInvalidScoringConfig, sum)
	}
	for _, w := range []float64{c.LifestyleWeight, c.DemographicWeight, c.LocationWeight, c.BudgetWeight} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: aggregate weight %v outside [0,1]", ErrInvalidScoringConfig, w)
		}
	}
	if !(c.ExcellentThreshold > c.GoodThreshold && c.GoodThreshold > c.FairThreshold) {
		return fmt.Errorf("%w: strength thresholds must descend", ErrInvalidScoringConfig)
	}
	if c.BudgetToleranceBand <= 0 {
		return fmt.Errorf("%w: budget tolerance band must be positive", ErrInvalidScoringConfig)
	}
	return nil
}

// Subscores holds the four component scores for one (user, neighborhood) pair
type Subscores struct {
	Lifestyle   float64 `json:"lifestyle"`
	Demographic float64 `json:"demographic"`
	Location    float64 `json:"location"`
	Budget      float64 `json:"budget"`
}

// subscoreCalculators is the fixed table the aggregator runs. Each entry is
// a pure function (User, Neighborhood) -> [0,1].
var subscoreCalculators = []struct {
	name   string
	weight func(ScoringConfig) float64
	score  func(*models.User, *models.Neighborhood, ScoringConfig) float64
	assign func(*Subscores, float64)
}{
	{
		name:   "lifestyle",
		weight: func(c ScoringConfig) float64 { return c.LifestyleWeight },
		score:  lifestyleSubscore,
		assign: func(s *Subscores, v float64) { s.Lifestyle = v },
	},
	{
		name:   "demographic",
		weight: func(c ScoringConfig) float64 { return c.DemographicWeight },
		score:  demographicSubscore,
		assign: func(s *Subscores, v float64) { s.Demographic = v },
	},
	{
		name:   "location",
		weight: func(c ScoringConfig) float64 { return c.LocationWeight },
		score:  locationSubscore,
		assign: func(s *Subscores, v float64) { s.Location = v },
	},
	{
		name:   "budget",
		weight: func(c ScoringConfig) float64 { return c.BudgetWeight },
		score:  budgetSubscore,
		assign: func(s *Subscores, v float64) { s.Budget = v },
	},
}

// computeScores runs every calculator and combines the results into an
// overall score via the configured weights
func computeScores(user *models.User, n *models.Neighborhood, cfg ScoringConfig) (Subscores, float64) {
	var subscores Subscores
	var overall float64
	for _, calc := range subscoreCalculators {
		v := clamp01(calc.score(user, n, cfg))
		calc.assign(&subscores, v)
		overall += calc.weight(cfg) * v
	}
	return subscores, clamp01(overall)
}

// strengthForScore maps an overall score onto its discrete band
func strengthForScore(score float64, cfg ScoringConfig) models.MatchStrength {
	switch {
	case score >= cfg.ExcellentThreshold:
		return models.StrengthExcellent
	case score >= cfg.GoodThreshold:
		return models.StrengthGood
	case score >= cfg.FairThreshold:
		return models.StrengthFair
	default:
		return models.StrengthPoor
	}
}

// buildMatch packages the scored pair into a persistable match record.
// Feedback columns stay zero here; the store's upsert keeps whatever
// feedback the pair already carries.
func buildMatch(user *models.User, n *models.Neighborhood, cfg ScoringConfig) *models.Match {
	subscores, overall := computeScores(user, n, cfg)
	return &models.Match{
		UserID:           user.ID,
		NeighborhoodID:   n.ID,
		LifestyleScore:   subscores.Lifestyle,
		DemographicScore: subscores.Demographic,
		LocationScore:    subscores.Location,
		BudgetScore:      subscores.Budget,
		OverallScore:     overall,
		MatchStrength:    strengthForScore(overall, cfg),
	}
}

// hobbyAmenities maps each hobby to the amenities that serve it
var hobbyAmenities = map[models.Hobby][]models.Amenity{
	models.HobbyFitness:     {models.AmenityGyms, models.AmenityParks},
	models.HobbyTravel:      {models.AmenityRestaurants, models.AmenityBars},
	models.HobbyMusic:       {models.AmenityBars, models.AmenityMuseums},
	models.HobbySports:      {models.AmenityParks, models.AmenityGyms},
	models.HobbyGardening:   {models.AmenityParks, models.AmenityGroceryStores},
	models.HobbyCooking:     {models.AmenityGroceryStores, models.AmenityRestaurants},
	models.HobbyReading:     {models.AmenityLibraries, models.AmenityCoffeeShops},
	models.HobbyPhotography: {models.AmenityParks, models.AmenityMuseums},
	models.HobbyArt:         {models.AmenityMuseums, models.AmenityCoffeeShops},
	models.HobbyGaming:      {models.AmenityCoffeeShops, models.AmenityShoppingCenters},
}

// lifestyleSubscore measures how well a neighborhood's character and
// amenities fit the user's stated preferences and hobbies
func lifestyleSubscore(user *models.User, n *models.Neighborhood, cfg ScoringConfig) float64 {
	// Primary: Jaccard overlap between preferences and characteristics.
	// Users with no stated preferences get a neutral baseline instead of a
	// zero, so sparse profiles are not penalized.
	primary := cfg.NeutralBaseline
	if len(user.LifestylePreferences) > 0 {
		prefs := make(map[string]struct{}, len(user.LifestylePreferences))
		for _, p := range user.LifestylePreferences {
			prefs[string(p)] = struct{}{}
		}
		chars := make(map[string]struct{}, len(n.LifestyleCharacteristics))
		for _, c := range n.LifestyleCharacteristics {
			chars[string(c)] = struct{}{}
		}

		intersection := 0
		for p := range prefs {
			if _, ok := chars[p]; ok {
				intersection++
			}
		}
		union := len(prefs) + len(chars) - intersection
		if union > 0 {
			primary = float64(intersection) / float64(union)
		}
	}

	// Secondary: fraction of hobbies served by at least one present amenity
	secondary := cfg.NeutralBaseline
	if len(user.Hobbies) > 0 {
		served := 0
		for _, hobby := range user.Hobbies {
			for _, amenity := range hobbyAmenities[hobby] {
				if n.Amenities.Contains(amenity) {
					served++
					break
				}
			}
		}
		secondary = float64(served) / float64(len(user.Hobbies))
	}

	return cfg.LifestylePrimaryWeight*primary + cfg.LifestyleSecondaryWeight*secondary
}

// demographicSubscore measures age proximity to the neighborhood's median
// age and the alignment of its tags with the user's family status
func demographicSubscore(user *models.User, n *models.Neighborhood, cfg ScoringConfig) float64 {
	ageTerm := 1.0 - math.Abs(float64(user.Age)-n.MedianAge)/cfg.AgeNormalizationYears
	ageTerm = clamp01(ageTerm)

	familyTerm := cfg.FamilyAffinityBaseline
	switch user.FamilyStatus {
	case models.FamilyWithChildren:
		if n.LifestyleCharacteristics.Contains(models.CharFamilyFriendly) {
			familyTerm = 1.0
		}
	case models.FamilySingle, models.FamilyCouple:
		if n.LifestyleCharacteristics.Contains(models.CharYoungProfessional) ||
			n.LifestyleCharacteristics.Contains(models.CharUniversityTown) {
			familyTerm = 1.0
		}
	case models.FamilyEmptyNester:
		if n.LifestyleCharacteristics.Contains(models.CharRetirementCommunity) ||
			n.LifestyleCharacteristics.Contains(models.CharQuiet) {
			familyTerm = 1.0
		}
	}

	return cfg.AgeTermWeight*ageTerm + cfg.FamilyTermWeight*familyTerm
}

// locationSubscore measures commute fit, mobility for the user's preferred
// transportation mode, safety, and (for households with children) schools.
// The school term is excluded otherwise, with the remaining weights
// renormalized so the score stays on [0,1].
func locationSubscore(user *models.User, n *models.Neighborhood, cfg ScoringConfig) float64 {
	commuteTerm := commuteFit(float64(user.MaxCommuteTimeMinutes), n.CommuteTimeMinutes)

	var mobilityTerm float64
	switch user.TransportationPreference {
	case models.TransportWalking:
		mobilityTerm = n.WalkScore / 100
	case models.TransportBiking:
		mobilityTerm = n.BikeScore / 100
	case models.TransportPublicTransit:
		mobilityTerm = n.TransitScore / 100
	case models.TransportCar:
		// No stored driving score; parking or highway access is the proxy
		if n.TransportationOptions.Contains(models.TransitParking) ||
			n.TransportationOptions.Contains(models.TransitHighwayAccess) {
			mobilityTerm = cfg.CarMobilityWithRoad
		} else {
			mobilityTerm = cfg.CarMobilityNeutral
		}
	default:
		mobilityTerm = cfg.CarMobilityNeutral
	}
	mobilityTerm = clamp01(mobilityTerm)

	safetyTerm := clamp01(n.SafetyScore / 10)

	terms := []struct {
		weight float64
		value  float64
	}{
		{cfg.CommuteTermWeight, commuteTerm},
		{cfg.MobilityTermWeight, mobilityTerm},
		{cfg.SafetyTermWeight, safetyTerm},
	}
	if user.HasChildren() {
		terms = append(terms, struct {
			weight float64
			value  float64
		}{cfg.SchoolTermWeight, clamp01(n.SchoolRating / 10)})
	}

	var weightSum, scoreSum float64
	for _, t := range terms {
		weightSum += t.weight
		scoreSum += t.weight * t.value
	}
	if weightSum == 0 {
		return 0
	}
	return scoreSum / weightSum
}

// commuteFit is 1 inside the user's commute limit and decays linearly to 0
// at twice the limit
func commuteFit(maxMinutes, actualMinutes float64) float64 {
	if maxMinutes <= 0 || actualMinutes <= 0 {
		return 0.5 // no stated limit or no commute data; neutral
	}
	if actualMinutes <= maxMinutes {
		return 1.0
	}
	return clamp01(1.0 - (actualMinutes-maxMinutes)/maxMinutes)
}

// budgetSubscore is 1 when the neighborhood's median home value falls inside
// the user's budget and decays linearly to 0 at the tolerance band beyond
// either bound. Near misses score above zero rather than being cut off.
func budgetSubscore(user *models.User, n *models.Neighborhood, cfg ScoringConfig) float64 {
	minBudget := float64(user.MinBudget)
	maxBudget := float64(user.MaxBudget)
	cost := n.MedianHomeValue

	if maxBudget <= 0 || cost <= 0 {
		return 0.5 // missing data; neutral rather than disqualifying
	}

	if cost >= minBudget && cost <= maxBudget {
		return 1.0
	}

	var overshoot, bound float64
	if cost > maxBudget {
		overshoot = cost - maxBudget
		bound = maxBudget
	} else {
		overshoot = minBudget - cost
		bound = minBudget
	}
	if bound <= 0 {
		return 0
	}

	return clamp01(1.0 - overshoot/(bound*cfg.BudgetToleranceBand))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
