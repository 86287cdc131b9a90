package repository

import (
	"context"
	"fmt"

	"neighborfit-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const neighborhoodColumns = `id, name, city, state, zip_code, latitude, longitude,
	total_population, median_age, median_income, home_ownership_rate, college_graduate_rate,
	median_home_value, median_rent, vacancy_rate,
	lifestyle_characteristics, amenities, transportation_options,
	crime_rate, safety_score, school_rating, number_of_schools,
	unemployment_rate, commute_time_minutes, air_quality_index,
	walk_score, bike_score, transit_score, diversity_index,
	number_of_restaurants, number_of_parks, number_of_libraries,
	created_at, updated_at`

// NeighborhoodRepository handles database operations for neighborhoods
type NeighborhoodRepository struct {
	db *pgxpool.Pool
}

// NewNeighborhoodRepository creates a new neighborhood repository
func NewNeighborhoodRepository(db *pgxpool.Pool) *NeighborhoodRepository {
	return &NeighborhoodRepository{db: db}
}

// Create inserts a new neighborhood
func (r *NeighborhoodRepository) Create(ctx context.Context, n *models.Neighborhood) error {
	query := `
		INSERT INTO neighborhoods (
			name, city, state, zip_code, latitude, longitude,
			total_population, median_age, median_income, home_ownership_rate,
			college_graduate_rate, median_home_value, median_rent, vacancy_rate,
			lifestyle_characteristics, amenities, transportation_options,
			crime_rate, safety_score, school_rating, number_of_schools,
			unemployment_rate, commute_time_minutes, air_quality_index,
			walk_score, bike_score, transit_score, diversity_index,
			number_of_restaurants, number_of_parks, number_of_libraries
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		n.Name,
		n.City,
		n.State,
		n.ZipCode,
		n.Latitude,
		n.Longitude,
		n.TotalPopulation,
		n.MedianAge,
		n.MedianIncome,
		n.HomeOwnershipRate,
		n.CollegeGraduateRate,
		n.MedianHomeValue,
		n.MedianRent,
		n.VacancyRate,
		n.LifestyleCharacteristics,
		n.Amenities,
		n.TransportationOptions,
		n.CrimeRate,
		n.SafetyScore,
		n.SchoolRating,
		n.NumberOfSchools,
		n.UnemploymentRate,
		n.CommuteTimeMinutes,
		n.AirQualityIndex,
		n.WalkScore,
		n.BikeScore,
		n.TransitScore,
		n.DiversityIndex,
		n.NumberOfRestaurants,
		n.NumberOfParks,
		n.NumberOfLibraries,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func scanNeighborhood(row pgx.Row) (*models.Neighborhood, error) {
	n := &models.Neighborhood{}
	err := row.Scan(
		&n.ID,
		&n.Name,
		&n.City,
		&n.State,
		&n.ZipCode,
		&n.Latitude,
		&n.Longitude,
		&n.TotalPopulation,
		&n.MedianAge,
		&n.MedianIncome,
		&n.HomeOwnershipRate,
		&n.CollegeGraduateRate,
		&n.MedianHomeValue,
		&n.MedianRent,
		&n.VacancyRate,
		&n.LifestyleCharacteristics,
		&n.Amenities,
		&n.TransportationOptions,
		&n.CrimeRate,
		&n.SafetyScore,
		&n.SchoolRating,
		&n.NumberOfSchools,
		&n.UnemploymentRate,
		&n.CommuteTimeMinutes,
		&n.AirQualityIndex,
		&n.WalkScore,
		&n.BikeScore,
		&n.TransitScore,
		&n.DiversityIndex,
		&n.NumberOfRestaurants,
		&n.NumberOfParks,
		&n.NumberOfLibraries,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NeighborhoodRepository) queryNeighborhoods(ctx context.Context, query string, args ...interface{}) ([]*models.Neighborhood, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var neighborhoods []*models.Neighborhood
	for rows.Next() {
		n, err := scanNeighborhood(rows)
		if err != nil {
			return nil, err
		}
		neighborhoods = append(neighborhoods, n)
	}

	return neighborhoods, rows.Err()
}

// GetByID retrieves a neighborhood by ID
func (r *NeighborhoodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE id = $1`
	return scanNeighborhood(r.db.QueryRow(ctx, query, id))
}

// List retrieves all neighborhoods ordered by name
func (r *NeighborhoodRepository) List(ctx context.Context) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods ORDER BY name ASC`
	return r.queryNeighborhoods(ctx, query)
}

// ListByCityState retrieves neighborhoods in a city
func (r *NeighborhoodRepository) ListByCityState(ctx context.Context, city, state string) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE city = $1 AND state = $2 ORDER BY name ASC`
	return r.queryNeighborhoods(ctx, query, city, state)
}

// ListByZipCode retrieves neighborhoods with a ZIP code
func (r *NeighborhoodRepository) ListByZipCode(ctx context.Context, zip string) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE zip_code = $1 ORDER BY name ASC`
	return r.queryNeighborhoods(ctx, query, zip)
}

// ListByIncomeRange retrieves neighborhoods with median income in a range
func (r *NeighborhoodRepository) ListByIncomeRange(ctx context.Context, minIncome, maxIncome float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE median_income BETWEEN $1 AND $2 ORDER BY median_income ASC`
	return r.queryNeighborhoods(ctx, query, minIncome, maxIncome)
}

// ListByHomeValueRange retrieves neighborhoods with median home value in a range
func (r *NeighborhoodRepository) ListByHomeValueRange(ctx context.Context, minValue, maxValue float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE median_home_value BETWEEN $1 AND $2 ORDER BY median_home_value ASC`
	return r.queryNeighborhoods(ctx, query, minValue, maxValue)
}

// ListByRentRange retrieves neighborhoods with median rent in a range
func (r *NeighborhoodRepository) ListByRentRange(ctx context.Context, minRent, maxRent float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE median_rent BETWEEN $1 AND $2 ORDER BY median_rent ASC`
	return r.queryNeighborhoods(ctx, query, minRent, maxRent)
}

// ListByMaxCrimeRate retrieves neighborhoods at or below a crime-rate ceiling
func (r *NeighborhoodRepository) ListByMaxCrimeRate(ctx context.Context, maxCrimeRate float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE crime_rate <= $1 ORDER BY crime_rate ASC`
	return r.queryNeighborhoods(ctx, query, maxCrimeRate)
}

// ListByMinSafetyScore retrieves neighborhoods at or above a safety-score floor
func (r *NeighborhoodRepository) ListByMinSafetyScore(ctx context.Context, minSafetyScore float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE safety_score >= $1 ORDER BY safety_score DESC`
	return r.queryNeighborhoods(ctx, query, minSafetyScore)
}

// ListByGeographicBounds retrieves neighborhoods inside a lat/lng box
func (r *NeighborhoodRepository) ListByGeographicBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods
		WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4
		ORDER BY name ASC`
	return r.queryNeighborhoods(ctx, query, minLat, maxLat, minLng, maxLng)
}

// ListForMatching retrieves candidate neighborhoods for scoring,
// applying whichever filter fields are set
func (r *NeighborhoodRepository) ListForMatching(ctx context.Context, filter models.NeighborhoodFilter) ([]*models.Neighborhood, error) {
	query := `SELECT ` + neighborhoodColumns + ` FROM neighborhoods WHERE 1=1`

	var args []interface{}
	argIndex := 1

	addArg := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.MinMedianIncome != nil {
		addArg(" AND median_income >= $%d", *filter.MinMedianIncome)
	}
	if filter.MaxMedianIncome != nil {
		addArg(" AND median_income <= $%d", *filter.MaxMedianIncome)
	}
	if filter.MinMedianHomeValue != nil {
		addArg(" AND median_home_value >= $%d", *filter.MinMedianHomeValue)
	}
	if filter.MaxMedianHomeValue != nil {
		addArg(" AND median_home_value <= $%d", *filter.MaxMedianHomeValue)
	}
	if filter.MaxCrimeRate != nil {
		addArg(" AND crime_rate <= $%d", *filter.MaxCrimeRate)
	}
	if filter.MinSafetyScore != nil {
		addArg(" AND safety_score >= $%d", *filter.MinSafetyScore)
	}
	if len(filter.Characteristics) > 0 {
		// JSONB containment against any of the wanted characteristics
		query += " AND ("
		for i, c := range filter.Characteristics {
			if i > 0 {
				query += " OR "
			}
			query += fmt.Sprintf("lifestyle_characteristics @> $%d", argIndex)
			args = append(args, models.LifestyleCharacteristicList{c})
			argIndex++
		}
		query += ")"
	}
	if filter.MinLatitude != nil {
		addArg(" AND latitude >= $%d", *filter.MinLatitude)
	}
	if filter.MaxLatitude != nil {
		addArg(" AND latitude <= $%d", *filter.MaxLatitude)
	}
	if filter.MinLongitude != nil {
		addArg(" AND longitude >= $%d", *filter.MinLongitude)
	}
	if filter.MaxLongitude != nil {
		addArg(" AND longitude <= $%d", *filter.MaxLongitude)
	}

	query += " ORDER BY id ASC"

	return r.queryNeighborhoods(ctx, query, args...)
}

// Count returns the number of neighborhoods
func (r *NeighborhoodRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM neighborhoods`).Scan(&count)
	return count, err
}
