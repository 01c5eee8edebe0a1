package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// CourseRepo implements ports.CourseRepository with pgx.
type CourseRepo struct {
	db *DB
}

// NewCourseRepo creates a new CourseRepo.
func NewCourseRepo(db *DB) *CourseRepo {
	return &CourseRepo{db: db}
}

const courseColumns = `
	c.id, c.slug, c.name, COALESCE(c.former_name, ''), c.city,
	COALESCE(c.municipality, ''), c.region, c.holes, c.par, c.length_meters,
	c.latitude, c.longitude, COALESCE(c.google_place_id, ''), c.weather, c.created_at,
	COALESCE((
		SELECT json_agg(json_build_object(
			'source', r.source,
			'rating', r.rating,
			'reviewCount', r.review_count,
			'maxRating', r.max_rating
		) ORDER BY r.source)
		FROM course_ratings r
		WHERE r.course_id = c.id
	), '[]'::json)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var (
		c            domain.Course
		lat, lng     *float64
		weather      []byte
		ratingsBytes []byte
	)
	if err := row.Scan(
		&c.ID, &c.Slug, &c.Name, &c.FormerName, &c.City,
		&c.Municipality, &c.Region, &c.Holes, &c.Par, &c.LengthMeters,
		&lat, &lng, &c.GooglePlaceID, &weather, &c.CreatedAt,
		&ratingsBytes,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		c.Coordinates = &domain.Coordinate{Latitude: *lat, Longitude: *lng}
	}
	if len(weather) > 0 {
		var w domain.Weather
		if err := json.Unmarshal(weather, &w); err != nil {
			return nil, fmt.Errorf("decode weather of %s: %w", c.Slug, err)
		}
		c.Weather = &w
	}
	if err := json.Unmarshal(ratingsBytes, &c.Ratings); err != nil {
		return nil, fmt.Errorf("decode ratings of %s: %w", c.Slug, err)
	}
	return &c, nil
}

func collectCourses(rows pgx.Rows) ([]domain.Course, error) {
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// FindInBounds returns courses whose coordinates fall inside box.
// Boxes crossing the antimeridian are not split.
func (r *CourseRepo) FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE c.latitude IS NOT NULL AND c.longitude IS NOT NULL
		  AND c.latitude BETWEEN $1 AND $2
		  AND c.longitude BETWEEN $3 AND $4
	`, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("query courses in bounds: %w", err)
	}
	return collectCourses(rows)
}

// GetBySlug returns a course by slug or domain.ErrNotFound.
func (r *CourseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE c.slug = $1
	`, slug)
	c, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("course %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Search matches query as a case-insensitive substring of name, city,
// region, municipality or former name.
func (r *CourseRepo) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE c.name ILIKE $1
		   OR c.city ILIKE $1
		   OR c.region ILIKE $1
		   OR c.municipality ILIKE $1
		   OR c.former_name ILIKE $1
		ORDER BY c.name
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return collectCourses(rows)
}

// List returns a page of courses ordered by name, plus the total count.
func (r *CourseRepo) List(ctx context.Context, offset, limit int) ([]domain.Course, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		ORDER BY c.name, c.slug
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListWithCoordinates returns every course that has a position.
func (r *CourseRepo) ListWithCoordinates(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses c
		WHERE c.latitude IS NOT NULL AND c.longitude IS NOT NULL
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list located courses: %w", err)
	}
	return collectCourses(rows)
}

// UpdateWeather stores the latest weather snapshot of a course.
func (r *CourseRepo) UpdateWeather(ctx context.Context, courseID string, w *domain.Weather) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode weather: %w", err)
	}
	updatedAt := w.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE courses
		SET weather = $2, weather_updated_at = $3, updated_at = now()
		WHERE id = $1
	`, courseID, data, updatedAt)
	if err != nil {
		return fmt.Errorf("update weather: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}
	return nil
}

// UpsertBatch inserts or updates courses and their rating sources using
// pgx.Batch, keyed by slug.
func (r *CourseRepo) UpsertBatch(ctx context.Context, courses []domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range courses {
		var lat, lng *float64
		if c.Coordinates != nil {
			lat, lng = &c.Coordinates.Latitude, &c.Coordinates.Longitude
		}
		batch.Queue(`
			INSERT INTO courses (slug, name, former_name, city, municipality, region,
			                     holes, par, length_meters, latitude, longitude, google_place_id)
			VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, NULLIF($12, ''))
			ON CONFLICT (slug) DO UPDATE
			SET name = EXCLUDED.name, former_name = EXCLUDED.former_name,
			    city = EXCLUDED.city, municipality = EXCLUDED.municipality,
			    region = EXCLUDED.region, holes = EXCLUDED.holes, par = EXCLUDED.par,
			    length_meters = EXCLUDED.length_meters,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			    google_place_id = EXCLUDED.google_place_id,
			    updated_at = now()
		`, c.Slug, c.Name, c.FormerName, c.City, c.Municipality, c.Region,
			c.Holes, c.Par, c.LengthMeters, lat, lng, c.GooglePlaceID)

		for _, rs := range c.Ratings {
			batch.Queue(`
				INSERT INTO course_ratings (course_id, source, rating, review_count, max_rating)
				SELECT id, $2, $3, $4, $5 FROM courses WHERE slug = $1
				ON CONFLICT (course_id, source) DO UPDATE
				SET rating = EXCLUDED.rating, review_count = EXCLUDED.review_count,
				    max_rating = EXCLUDED.max_rating, updated_at = now()
			`, c.Slug, rs.Source, rs.Rating, rs.ReviewCount, rs.MaxRating)
		}
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
