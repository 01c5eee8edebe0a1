package domain_test

import (
	"testing"

	"github.com/golfkart/golfkart/internal/core/domain"
)

func TestTranslateCondition(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sunny", "Solrikt"},
		{"Partly cloudy", "Delvis skyet"},
		{"LIGHT RAIN", "Lett regn"},
		{"Light rain showers", "Regn"},
		{"Thunderstorm", "Tordenvær"},
		{"Volcanic ash", "Volcanic ash"},
	}
	for _, tt := range tests {
		if got := domain.TranslateCondition(tt.in); got != tt.want {
			t.Errorf("TranslateCondition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConditionEmoji(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Partly sunny", "⛅"},
		{"MOSTLY_CLOUDY", "⛅"},
		{"Clear", "☀️"},
		{"Overcast", "☁️"},
		{"Drizzle", "🌧️"},
		{"Thunderstorm", "⛈️"},
		{"Light snow", "❄️"},
		{"Fog", "🌫️"},
		{"Windy", "💨"},
		{"unknown", "🌤️"},
	}
	for _, tt := range tests {
		if got := domain.ConditionEmoji(tt.in); got != tt.want {
			t.Errorf("ConditionEmoji(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWindCardinal(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{338, "N"},
		{360, "N"},
		{-90, "W"},
	}
	for _, tt := range tests {
		if got := domain.WindCardinal(tt.deg); got != tt.want {
			t.Errorf("WindCardinal(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}
