package domain

import (
	"time"
)

// Course is a golf course as held by the course store.
type Course struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug"`
	Name          string         `json:"name"`
	FormerName    string         `json:"formerName,omitempty"`
	City          string         `json:"city"`
	Municipality  string         `json:"municipality,omitempty"`
	Region        string         `json:"region"`
	Holes         int            `json:"holes"`
	Par           *int           `json:"par"`
	LengthMeters  *int           `json:"lengthMeters,omitempty"`
	Coordinates   *Coordinate    `json:"coordinates"`
	GooglePlaceID string         `json:"googlePlaceId,omitempty"`
	Ratings       []RatingSource `json:"ratings,omitempty"`
	Weather       *Weather       `json:"weather,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// RatingSource is one external platform's rating of a course.
// MaxRating is the platform's native scale; nil means 5.
type RatingSource struct {
	Source      string   `json:"source"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	MaxRating   *float64 `json:"maxRating"`
}

// RankedCourse is a proximity search result.
type RankedCourse struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	City          string     `json:"city"`
	Region        string     `json:"region"`
	Holes         int        `json:"holes"`
	Par           *int       `json:"par"`
	Coordinates   Coordinate `json:"coordinates"`
	DistanceKm    float64    `json:"distanceKm"`
	AverageRating *float64   `json:"averageRating"`
	TotalReviews  int        `json:"totalReviews"`
}

// Weather is a current-conditions snapshot for a location.
type Weather struct {
	Temperature         float64   `json:"temperature"` // Celsius
	FeelsLike           float64   `json:"feelsLike"`
	Condition           string    `json:"condition"`
	Icon                string    `json:"icon"`
	WindSpeed           float64   `json:"windSpeed"`     // km/h
	WindDirection       float64   `json:"windDirection"` // degrees
	Humidity            float64   `json:"humidity"`
	PrecipitationChance float64   `json:"precipitationChance"`
	UVIndex             float64   `json:"uvIndex"`
	Visibility          float64   `json:"visibility"` // km
	UpdatedAt           time.Time `json:"updatedAt"`
}

// PlacePhoto is a photo reference returned by the places provider.
type PlacePhoto struct {
	URL             string `json:"url"`
	AttributionHTML string `json:"attributionHtml"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
}

// SubmissionKind distinguishes the forms that notify the administrator.
type SubmissionKind string

const (
	SubmissionContact SubmissionKind = "contact"
	SubmissionReview  SubmissionKind = "review"
)

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Review is a visitor review of a course.
type Review struct {
	CourseSlug string `json:"courseSlug" validate:"required,max=200"`
	CourseName string `json:"courseName,omitempty" validate:"max=200"`
	Author     string `json:"author" validate:"required,max=50"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Text       string `json:"text" validate:"required,max=1000"`
}

// Submission is the envelope published for asynchronous delivery.
type Submission struct {
	ID         string          `json:"id"`
	Kind       SubmissionKind  `json:"kind"`
	Contact    *ContactMessage `json:"contact,omitempty"`
	Review     *Review         `json:"review,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// WeatherUpdate announces a refreshed weather snapshot of a course.
type WeatherUpdate struct {
	Slug    string   `json:"slug"`
	Weather *Weather `json:"weather"`
}
