package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Gender represents a user's gender
type Gender string

const (
	GenderMale           Gender = "MALE"
	GenderFemale         Gender = "FEMALE"
	GenderNonBinary      Gender = "NON_BINARY"
	GenderPreferNotToSay Gender = "PREFER_NOT_TO_SAY"
)

// MaritalStatus represents a user's marital status
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "SINGLE"
	MaritalMarried  MaritalStatus = "MARRIED"
	MaritalDivorced MaritalStatus = "DIVORCED"
	MaritalWidowed  MaritalStatus = "WIDOWED"
)

// EducationLevel represents a user's highest education level
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "HIGH_SCHOOL"
	EducationBachelors  EducationLevel = "BACHELORS"
	EducationMasters    EducationLevel = "MASTERS"
	EducationDoctorate  EducationLevel = "DOCTORATE"
	EducationOther      EducationLevel = "OTHER"
)

// IncomeLevel represents a user's income bracket
type IncomeLevel string

const (
	IncomeLow      IncomeLevel = "LOW"
	IncomeMedium   IncomeLevel = "MEDIUM"
	IncomeHigh     IncomeLevel = "HIGH"
	IncomeVeryHigh IncomeLevel = "VERY_HIGH"
)

// OccupationType represents a user's occupation sector
type OccupationType string

const (
	OccupationTechnology OccupationType = "TECHNOLOGY"
	OccupationHealthcare OccupationType = "HEALTHCARE"
	OccupationFinance    OccupationType = "FINANCE"
	OccupationEducation  OccupationType = "EDUCATION"
	OccupationGovernment OccupationType = "GOVERNMENT"
	OccupationRetail     OccupationType = "RETAIL"
	OccupationOther      OccupationType = "OTHER"
)

// LifestylePreference represents a lifestyle a user wants in a neighborhood
type LifestylePreference string

const (
	PrefUrban             LifestylePreference = "URBAN"
	PrefSuburban          LifestylePreference = "SUBURBAN"
	PrefRural             LifestylePreference = "RURAL"
	PrefQuiet             LifestylePreference = "QUIET"
	PrefFamilyOriented    LifestylePreference = "FAMILY_ORIENTED"
	PrefYoungProfessional LifestylePreference = "YOUNG_PROFESSIONAL"
	PrefRetirement        LifestylePreference = "RETIREMENT"
)

// Hobby represents a user's hobby
type Hobby string

const (
	HobbyFitness     Hobby = "FITNESS"
	HobbyTravel      Hobby = "TRAVEL"
	HobbyMusic       Hobby = "MUSIC"
	HobbySports      Hobby = "SPORTS"
	HobbyGardening   Hobby = "GARDENING"
	HobbyCooking     Hobby = "COOKING"
	HobbyReading     Hobby = "READING"
	HobbyPhotography Hobby = "PHOTOGRAPHY"
	HobbyArt         Hobby = "ART"
	HobbyGaming      Hobby = "GAMING"
)

// FamilyStatus represents a user's household composition
type FamilyStatus string

const (
	FamilySingle       FamilyStatus = "SINGLE"
	FamilyCouple       FamilyStatus = "COUPLE"
	FamilyWithChildren FamilyStatus = "WITH_CHILDREN"
	FamilyEmptyNester  FamilyStatus = "EMPTY_NESTER"
)

// PetPreference represents a user's pet situation
type PetPreference string

const (
	PetNone PetPreference = "NO_PETS"
	PetDogs PetPreference = "DOGS"
	PetCats PetPreference = "CATS"
	PetAny  PetPreference = "ANY_PETS"
)

// TransportationPreference represents how a user prefers to get around
type TransportationPreference string

const (
	TransportCar           TransportationPreference = "CAR"
	TransportPublicTransit TransportationPreference = "PUBLIC_TRANSIT"
	TransportBiking        TransportationPreference = "BIKING"
	TransportWalking       TransportationPreference = "WALKING"
)

// LocationType represents the kind of area a user wants to live in
type LocationType string

const (
	LocationCityCenter     LocationType = "CITY_CENTER"
	LocationSuburb         LocationType = "SUBURB"
	LocationUniversityArea LocationType = "UNIVERSITY_AREA"
	LocationSmallTown      LocationType = "SMALL_TOWN"
)

// LifestylePreferenceList is a set of lifestyle preferences stored as JSONB
type LifestylePreferenceList []LifestylePreference

// Value implements driver.Valuer for JSONB
func (l LifestylePreferenceList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *LifestylePreferenceList) Scan(value interface{}) error {
	return scanJSONList(value, l)
}

// HobbyList is a set of hobbies stored as JSONB
type HobbyList []Hobby

// Value implements driver.Valuer for JSONB
func (h HobbyList) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for JSONB
func (h *HobbyList) Scan(value interface{}) error {
	return scanJSONList(value, h)
}

// scanJSONList decodes a JSONB column into a slice, tolerating the
// different raw types pgx may hand back and treating empty as empty.
func scanJSONList(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, dest)
}

// User represents a person looking for a neighborhood
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`

	// Demographics
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	MaritalStatus  MaritalStatus  `json:"marital_status"`
	EducationLevel EducationLevel `json:"education_level"`
	IncomeLevel    IncomeLevel    `json:"income_level"`
	OccupationType OccupationType `json:"occupation_type"`

	// Preferences
	LifestylePreferences     LifestylePreferenceList  `json:"lifestyle_preferences"`
	Hobbies                  HobbyList                `json:"hobbies"`
	FamilyStatus             FamilyStatus             `json:"family_status"`
	PetPreference            PetPreference            `json:"pet_preference"`
	TransportationPreference TransportationPreference `json:"transportation_preference"`
	PreferredLocationType    LocationType             `json:"preferred_location_type"`

	// Constraints
	MaxCommuteTimeMinutes int `json:"max_commute_time_minutes"`
	MaxDistanceMiles      int `json:"max_distance_miles"`
	MinBudget             int `json:"min_budget"`
	MaxBudget             int `json:"max_budget"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasChildren reports whether the user's household includes children
func (u *User) HasChildren() bool {
	return u.FamilyStatus == FamilyWithChildren
}
