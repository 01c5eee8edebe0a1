package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/golfkart/golfkart/internal/core/domain"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestAverageRating_NormalizesScales(t *testing.T) {
	avg, total := domain.AverageRating([]domain.RatingSource{
		{Source: "google", Rating: ptrF(4), MaxRating: ptrF(5), ReviewCount: ptrI(10)},
		{Source: "golfpass", Rating: ptrF(8), MaxRating: ptrF(10), ReviewCount: ptrI(0)},
	})
	if avg == nil {
		t.Fatal("expected an average")
	}
	if math.Abs(*avg-4.0) > 1e-9 {
		t.Errorf("expected 4.0, got %f", *avg)
	}
	if total != 11 {
		t.Errorf("expected totalReviews 11, got %d", total)
	}
}

func TestAverageRating_WeightsByReviewCount(t *testing.T) {
	avg, total := domain.AverageRating([]domain.RatingSource{
		{Rating: ptrF(5), ReviewCount: ptrI(3)},
		{Rating: ptrF(1), ReviewCount: ptrI(1)},
	})
	if avg == nil || math.Abs(*avg-4.0) > 1e-9 {
		t.Fatalf("expected 4.0, got %v", avg)
	}
	if total != 4 {
		t.Errorf("expected 4, got %d", total)
	}
}

func TestAverageRating_MissingMaxDefaultsToFive(t *testing.T) {
	avg, _ := domain.AverageRating([]domain.RatingSource{{Rating: ptrF(3.5)}})
	if avg == nil || math.Abs(*avg-3.5) > 1e-9 {
		t.Fatalf("expected 3.5, got %v", avg)
	}
}

func TestAverageRating_NoRatedSources(t *testing.T) {
	cases := map[string][]domain.RatingSource{
		"nil":     nil,
		"empty":   {},
		"unrated": {{Source: "google", ReviewCount: ptrI(12)}},
	}
	for name, sources := range cases {
		t.Run(name, func(t *testing.T) {
			avg, total := domain.AverageRating(sources)
			if avg != nil {
				t.Errorf("expected nil average, got %f", *avg)
			}
			if total != 0 {
				t.Errorf("expected 0 reviews, got %d", total)
			}
		})
	}
}

func TestCoordinate_Validate(t *testing.T) {
	valid := []domain.Coordinate{{59.91, 10.75}, {-90, -180}, {90, 180}, {0, 0}}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("%+v: unexpected error %v", c, err)
		}
	}

	invalid := []domain.Coordinate{
		{200, 10},
		{-90.0001, 0},
		{59, 180.5},
		{math.NaN(), 10},
		{59, math.Inf(1)},
	}
	for _, c := range invalid {
		err := c.Validate()
		if err == nil {
			t.Errorf("%+v: expected error", c)
			continue
		}
		if !errors.Is(err, domain.ErrInvalidCoordinate) {
			t.Errorf("%+v: expected ErrInvalidCoordinate, got %v", c, err)
		}
	}
}

func TestBoundingBox_ContainsEdges(t *testing.T) {
	box := domain.BoundingBox{MinLat: 59, MaxLat: 60, MinLng: 10, MaxLng: 11}
	if !box.Contains(domain.Coordinate{Latitude: 59, Longitude: 11}) {
		t.Error("expected edge to be inside")
	}
	if box.Contains(domain.Coordinate{Latitude: 60.01, Longitude: 10.5}) {
		t.Error("expected point outside")
	}
}
