package google

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// WeatherClient implements ports.WeatherProvider against the Google Weather
// API currentConditions:lookup method.
type WeatherClient struct {
	client
	now func() time.Time
}

// NewWeatherClient creates a new WeatherClient.
func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{client: newClient(baseURL, apiKey, timeout), now: time.Now}
}

type currentConditions struct {
	Temperature struct {
		Degrees float64 `json:"degrees"`
	} `json:"temperature"`
	FeelsLikeTemperature struct {
		Degrees float64 `json:"degrees"`
	} `json:"feelsLikeTemperature"`
	WeatherCondition struct {
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
		Type string `json:"type"`
	} `json:"weatherCondition"`
	Wind struct {
		Speed struct {
			Value float64 `json:"value"`
		} `json:"speed"`
		Direction struct {
			Degrees float64 `json:"degrees"`
		} `json:"direction"`
	} `json:"wind"`
	RelativeHumidity float64 `json:"relativeHumidity"`
	Precipitation    struct {
		Probability struct {
			Percent float64 `json:"percent"`
		} `json:"probability"`
	} `json:"precipitation"`
	UVIndex    float64 `json:"uvIndex"`
	Visibility struct {
		Distance float64 `json:"distance"`
	} `json:"visibility"`
}

// Current returns the conditions at a coordinate. Missing fields are zero;
// a missing description becomes "Unknown".
func (c *WeatherClient) Current(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location.latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))

	var cc currentConditions
	if err := c.getJSON(ctx, c.baseURL+"/currentConditions:lookup?"+q.Encode(), nil, &cc); err != nil {
		return nil, fmt.Errorf("weather lookup: %w", err)
	}

	w := &domain.Weather{
		Temperature:         cc.Temperature.Degrees,
		FeelsLike:           cc.FeelsLikeTemperature.Degrees,
		Condition:           cc.WeatherCondition.Description.Text,
		Icon:                cc.WeatherCondition.Type,
		WindSpeed:           cc.Wind.Speed.Value,
		WindDirection:       cc.Wind.Direction.Degrees,
		Humidity:            cc.RelativeHumidity,
		PrecipitationChance: cc.Precipitation.Probability.Percent,
		UVIndex:             cc.UVIndex,
		Visibility:          cc.Visibility.Distance,
		UpdatedAt:           c.now().UTC(),
	}
	if w.Condition == "" {
		w.Condition = "Unknown"
	}
	if w.Icon == "" {
		w.Icon = "unknown"
	}
	return w, nil
}
