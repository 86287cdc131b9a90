package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LifestyleCharacteristic represents the character of a neighborhood
type LifestyleCharacteristic string

const (
	CharUrban               LifestyleCharacteristic = "URBAN"
	CharSuburban            LifestyleCharacteristic = "SUBURBAN"
	CharRural               LifestyleCharacteristic = "RURAL"
	CharQuiet               LifestyleCharacteristic = "QUIET"
	CharFamilyFriendly      LifestyleCharacteristic = "FAMILY_FRIENDLY"
	CharYoungProfessional   LifestyleCharacteristic = "YOUNG_PROFESSIONAL"
	CharUniversityTown      LifestyleCharacteristic = "UNIVERSITY_TOWN"
	CharRetirementCommunity LifestyleCharacteristic = "RETIREMENT_COMMUNITY"
)

// Amenity represents an amenity available in a neighborhood
type Amenity string

const (
	AmenityRestaurants     Amenity = "RESTAURANTS"
	AmenityCoffeeShops     Amenity = "COFFEE_SHOPS"
	AmenityBars            Amenity = "BARS"
	AmenityShoppingCenters Amenity = "SHOPPING_CENTERS"
	AmenityGroceryStores   Amenity = "GROCERY_STORES"
	AmenityGyms            Amenity = "GYMS"
	AmenityParks           Amenity = "PARKS"
	AmenityLibraries       Amenity = "LIBRARIES"
	AmenitySchools         Amenity = "SCHOOLS"
	AmenityHospitals       Amenity = "HOSPITALS"
	AmenityMuseums         Amenity = "MUSEUMS"
)

// TransportationOption represents a transportation mode available in a neighborhood
type TransportationOption string

const (
	TransitSubway        TransportationOption = "SUBWAY"
	TransitBus           TransportationOption = "BUS"
	TransitLightRail     TransportationOption = "LIGHT_RAIL"
	TransitBikeLanes     TransportationOption = "BIKE_LANES"
	TransitWalkingTrails TransportationOption = "WALKING_TRAILS"
	TransitParking       TransportationOption = "PARKING"
	TransitHighwayAccess TransportationOption = "HIGHWAY_ACCESS"
)

// LifestyleCharacteristicList is a set of characteristics stored as JSONB
type LifestyleCharacteristicList []LifestyleCharacteristic

// Value implements driver.Valuer for JSONB
func (l LifestyleCharacteristicList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *LifestyleCharacteristicList) Scan(value interface{}) error {
	return scanJSONList(value, l)
}

// Contains reports whether the characteristic is present
func (l LifestyleCharacteristicList) Contains(c LifestyleCharacteristic) bool {
	for _, v := range l {
		if v == c {
			return true
		}
	}
	return false
}

// AmenityList is a set of amenities stored as JSONB
type AmenityList []Amenity

// Value implements driver.Valuer for JSONB
func (a AmenityList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *AmenityList) Scan(value interface{}) error {
	return scanJSONList(value, a)
}

// Contains reports whether the amenity is present
func (a AmenityList) Contains(amenity Amenity) bool {
	for _, v := range a {
		if v == amenity {
			return true
		}
	}
	return false
}

// TransportationOptionList is a set of transportation options stored as JSONB
type TransportationOptionList []TransportationOption

// Value implements driver.Valuer for JSONB
func (t TransportationOptionList) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB
func (t *TransportationOptionList) Scan(value interface{}) error {
	return scanJSONList(value, t)
}

// Contains reports whether the transportation option is present
func (t TransportationOptionList) Contains(opt TransportationOption) bool {
	for _, v := range t {
		if v == opt {
			return true
		}
	}
	return false
}

// Neighborhood represents a candidate residential area.
// Mobility scores (walk/bike/transit) are on a 0-100 scale;
// safety score and school rating are on a 0-10 scale.
type Neighborhood struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// Location
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Demographics
	TotalPopulation     int     `json:"total_population"`
	MedianAge           float64 `json:"median_age"`
	MedianIncome        float64 `json:"median_income"`
	HomeOwnershipRate   float64 `json:"home_ownership_rate"`
	CollegeGraduateRate float64 `json:"college_graduate_rate"`

	// Housing costs
	MedianHomeValue float64 `json:"median_home_value"`
	MedianRent      float64 `json:"median_rent"`
	VacancyRate     float64 `json:"vacancy_rate"`

	// Character
	LifestyleCharacteristics LifestyleCharacteristicList `json:"lifestyle_characteristics"`
	Amenities                AmenityList                 `json:"amenities"`
	TransportationOptions    TransportationOptionList    `json:"transportation_options"`

	// Safety and education
	CrimeRate       float64 `json:"crime_rate"`
	SafetyScore     float64 `json:"safety_score"`
	SchoolRating    float64 `json:"school_rating"`
	NumberOfSchools int     `json:"number_of_schools"`

	// Economy and environment
	UnemploymentRate   float64 `json:"unemployment_rate"`
	CommuteTimeMinutes float64 `json:"commute_time_minutes"`
	AirQualityIndex    float64 `json:"air_quality_index"`

	// Mobility
	WalkScore    float64 `json:"walk_score"`
	BikeScore    float64 `json:"bike_score"`
	TransitScore float64 `json:"transit_score"`

	DiversityIndex      float64 `json:"diversity_index"`
	NumberOfRestaurants int     `json:"number_of_restaurants"`
	NumberOfParks       int     `json:"number_of_parks"`
	NumberOfLibraries   int     `json:"number_of_libraries"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NeighborhoodFilter narrows candidate retrieval before scoring.
// Nil fields are not applied.
type NeighborhoodFilter struct {
	MinMedianIncome    *float64
	MaxMedianIncome    *float64
	MinMedianHomeValue *float64
	MaxMedianHomeValue *float64
	MaxCrimeRate       *float64
	MinSafetyScore     *float64
	Characteristics    LifestyleCharacteristicList
	MinLatitude        *float64
	MaxLatitude        *float64
	MinLongitude       *float64
	MaxLongitude       *float64
}
