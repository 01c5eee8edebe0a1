package google

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golfkart/golfkart/internal/core/domain"
)

const (
	photoMaxWidthPx  = 1200
	photoMaxHeightPx = 800
)

// PlacesClient implements ports.PhotoProvider against the Places API (New).
type PlacesClient struct {
	client
}

// NewPlacesClient creates a new PlacesClient.
func NewPlacesClient(baseURL, apiKey string, timeout time.Duration) *PlacesClient {
	return &PlacesClient{client: newClient(baseURL, apiKey, timeout)}
}

type placeDetails struct {
	Photos []struct {
		Name               string `json:"name"`
		WidthPx            int    `json:"widthPx"`
		HeightPx           int    `json:"heightPx"`
		AuthorAttributions []struct {
			DisplayName string `json:"displayName"`
			URI         string `json:"uri"`
		} `json:"authorAttributions"`
	} `json:"photos"`
}

type photoMedia struct {
	PhotoURI string `json:"photoUri"`
}

// PlacePhotos returns up to maxPhotos photos for placeID. Each media URL is
// resolved here with the key sent as a header, so the returned URLs carry no
// credentials. A photo whose media lookup fails is left out.
func (c *PlacesClient) PlacePhotos(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
	if maxPhotos <= 0 {
		return []domain.PlacePhoto{}, nil
	}

	header := http.Header{}
	header.Set("X-Goog-Api-Key", c.apiKey)
	header.Set("X-Goog-FieldMask", "photos")

	var details placeDetails
	if err := c.getJSON(ctx, c.baseURL+"/places/"+url.PathEscape(placeID), header, &details); err != nil {
		return nil, fmt.Errorf("place details: %w", err)
	}

	mediaHeader := http.Header{}
	mediaHeader.Set("X-Goog-Api-Key", c.apiKey)

	q := url.Values{}
	q.Set("maxWidthPx", fmt.Sprint(photoMaxWidthPx))
	q.Set("maxHeightPx", fmt.Sprint(photoMaxHeightPx))
	q.Set("skipHttpRedirect", "true")

	photos := make([]domain.PlacePhoto, 0, min(maxPhotos, len(details.Photos)))
	var firstErr error
	for i, p := range details.Photos {
		if i >= maxPhotos {
			break
		}

		var media photoMedia
		if err := c.getJSON(ctx, c.baseURL+"/"+p.Name+"/media?"+q.Encode(), mediaHeader, &media); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if media.PhotoURI == "" {
			continue
		}

		links := make([]string, 0, len(p.AuthorAttributions))
		for _, a := range p.AuthorAttributions {
			links = append(links, fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`,
				html.EscapeString(a.URI), html.EscapeString(a.DisplayName)))
		}
		attribution := strings.Join(links, ", ")
		if attribution == "" {
			attribution = "Google"
		}

		photos = append(photos, domain.PlacePhoto{
			URL:             media.PhotoURI,
			AttributionHTML: attribution,
			Width:           p.WidthPx,
			Height:          p.HeightPx,
		})
	}
	if len(photos) == 0 && firstErr != nil {
		return nil, fmt.Errorf("photo media: %w", firstErr)
	}
	return photos, nil
}
