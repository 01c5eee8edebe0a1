package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// courseFile is the scraped course record as stored in the data files.
type courseFile struct {
	Slug          string        `json:"slug" validate:"required,max=200"`
	Name          string        `json:"name" validate:"required"`
	FormerName    string        `json:"formerName"`
	City          string        `json:"city"`
	Municipality  string        `json:"municipality"`
	Region        string        `json:"region"`
	Holes         int           `json:"holes" validate:"omitempty,min=1,max=72"`
	Par           *int          `json:"par" validate:"omitempty,min=27,max=80"`
	LengthMeters  *int          `json:"lengthMeters" validate:"omitempty,min=0"`
	Latitude      *float64      `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64      `json:"longitude" validate:"omitempty,longitude"`
	GooglePlaceID string        `json:"googlePlaceId"`
	Ratings       []ratingEntry `json:"ratings" validate:"dive"`
}

type ratingEntry struct {
	Source      string   `json:"source" validate:"required"`
	Rating      *float64 `json:"rating" validate:"omitempty,min=0"`
	ReviewCount *int     `json:"reviewCount" validate:"omitempty,min=0"`
	MaxRating   *float64 `json:"maxRating" validate:"omitempty,gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (f courseFile) toDomain() domain.Course {
	c := domain.Course{
		Slug:          f.Slug,
		Name:          f.Name,
		FormerName:    f.FormerName,
		City:          f.City,
		Municipality:  f.Municipality,
		Region:        f.Region,
		Holes:         f.Holes,
		Par:           f.Par,
		LengthMeters:  f.LengthMeters,
		GooglePlaceID: f.GooglePlaceID,
	}
	if c.Holes == 0 {
		c.Holes = 18
	}
	if f.Latitude != nil && f.Longitude != nil {
		c.Coordinates = &domain.Coordinate{Latitude: *f.Latitude, Longitude: *f.Longitude}
	}
	for _, r := range f.Ratings {
		c.Ratings = append(c.Ratings, domain.RatingSource{
			Source:      strings.ToLower(r.Source),
			Rating:      r.Rating,
			ReviewCount: r.ReviewCount,
			MaxRating:   r.MaxRating,
		})
	}
	return c
}

// parseCourses decodes either a single course object or an array of them.
func parseCourses(data []byte) ([]courseFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []courseFile
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one courseFile
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []courseFile{one}, nil
}

// loadCourses reads every .json file named by paths, walking directories.
// Invalid records are logged and counted; a later duplicate slug wins.
func loadCourses(paths []string) ([]domain.Course, int, error) {
	var files []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
	}

	bySlug := map[string]int{}
	var courses []domain.Course
	skipped := 0

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		records, err := parseCourses(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}

		for _, rec := range records {
			if err := validate.Struct(rec); err != nil {
				slog.Warn("skipping invalid course", "file", path, "slug", rec.Slug, "error", err)
				skipped++
				continue
			}
			c := rec.toDomain()
			if i, ok := bySlug[c.Slug]; ok {
				courses[i] = c
				continue
			}
			bySlug[c.Slug] = len(courses)
			courses = append(courses, c)
		}
	}
	return courses, skipped, nil
}

func chunk(courses []domain.Course, size int) [][]domain.Course {
	if size <= 0 {
		size = 100
	}
	var out [][]domain.Course
	for start := 0; start < len(courses); start += size {
		out = append(out, courses[start:min(start+size, len(courses))])
	}
	return out
}
