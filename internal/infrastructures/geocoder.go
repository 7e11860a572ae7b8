package infrastructures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// HTTPGeocoder calls an external geocoding API.
type HTTPGeocoder struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewGeocoder() Geocoder {
	if Config.GEOCODER_BASE_URL == "" {
		logrus.Warn("GEOCODER_BASE_URL not set, using stub geocoder")
		return &StubGeocoder{}
	}

	return &HTTPGeocoder{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: Config.GEOCODER_BASE_URL,
	}
}

type geocodeResult struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/geocode?q=%s", g.BaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var result geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, err
	}
	return result.Lat, result.Lng, nil
}

// StubGeocoder returns coordinates from a fixed table. Used in development
// and tests so production paths never depend on inline fakes.
type StubGeocoder struct{}

var stubLocations = map[string]geocodeResult{
	"singapore": {Lat: 1.3521, Lng: 103.8198},
	"jakarta":   {Lat: -6.2088, Lng: 106.8456},
	"bangkok":   {Lat: 13.7563, Lng: 100.5018},
}

func (g *StubGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	lower := strings.ToLower(address)
	for key, loc := range stubLocations {
		if strings.Contains(lower, key) {
			return loc.Lat, loc.Lng, nil
		}
	}
	return 0, 0, nil
}
