package domain

import (
	"math"
	"strings"
)

var conditionTranslations = []struct{ english, norwegian string }{
	{"clear", "Klart"},
	{"sunny", "Solrikt"},
	{"mostly sunny", "Delvis solrikt"},
	{"partly sunny", "Delvis solrikt"},
	{"partly cloudy", "Delvis skyet"},
	{"mostly cloudy", "Overskyet"},
	{"cloudy", "Skyet"},
	{"overcast", "Overskyet"},
	{"rain", "Regn"},
	{"light rain", "Lett regn"},
	{"heavy rain", "Kraftig regn"},
	{"drizzle", "Duskregn"},
	{"showers", "Regnbyger"},
	{"thunderstorm", "Tordenvær"},
	{"snow", "Snø"},
	{"light snow", "Lett snø"},
	{"heavy snow", "Kraftig snø"},
	{"sleet", "Sludd"},
	{"fog", "Tåke"},
	{"mist", "Dis"},
	{"haze", "Dunst"},
	{"windy", "Vindfull"},
}

// TranslateCondition returns the Norwegian wording of an English condition
// description. Exact matches win over substring matches; unknown conditions
// are returned unchanged.
func TranslateCondition(condition string) string {
	lower := strings.ToLower(condition)
	for _, t := range conditionTranslations {
		if lower == t.english {
			return t.norwegian
		}
	}
	for _, t := range conditionTranslations {
		if strings.Contains(lower, t.english) {
			return t.norwegian
		}
	}
	return condition
}

// ConditionEmoji picks an emoji for a condition description or type code.
func ConditionEmoji(condition string) string {
	lower := strings.ToLower(condition)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}

	// "partly sunny" must not match the plain sunny case.
	switch {
	case has("partly", "partial", "mostly"):
		return "⛅"
	case has("clear", "sunny"):
		return "☀️"
	case has("cloud", "overcast"):
		return "☁️"
	case has("rain", "drizzle"):
		return "🌧️"
	case has("storm", "thunder"):
		return "⛈️"
	case has("snow", "flurr"):
		return "❄️"
	case has("fog", "mist"):
		return "🌫️"
	case has("wind"):
		return "💨"
	}
	return "🌤️"
}

var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WindCardinal converts a wind direction in degrees to one of eight compass
// points.
func WindCardinal(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return cardinals[int(math.Round(d/45))%8]
}
