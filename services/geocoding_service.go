package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// GeocodedLocation is a resolved place with coordinates
type GeocodedLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
}

// ForwardGeocoder resolves a free-text place name to coordinates via an
// external provider. Implementations return (nil, nil) when nothing matched.
type ForwardGeocoder interface {
	Forward(ctx context.Context, query, countryHint string) (*GeocodedLocation, error)
}

// GeocodingService maps free-text location strings to coordinates,
// deterministically when possible: the static gazetteer is consulted before
// the online fallback, and results are cached for the process lifetime.
type GeocodingService struct {
	online ForwardGeocoder
	cache  sync.Map // normalized query -> *GeocodedLocation

	countryHint string
}

// NewGeocodingService creates a geocoding service with an online fallback
func NewGeocodingService(online ForwardGeocoder, countryHint string) *GeocodingService {
	return &GeocodingService{
		online:      online,
		countryHint: countryHint,
	}
}

// Geocode resolves a location string to coordinates. Returns nil only when
// every tier (cache, gazetteer, state table, online provider) fails.
func (s *GeocodingService) Geocode(ctx context.Context, locationString string) *GeocodedLocation {
	normalized := strings.ToLower(strings.TrimSpace(locationString))
	if normalized == "" {
		return nil
	}

	// Check cache first
	if cached, ok := s.cache.Load(normalized); ok {
		return cached.(*GeocodedLocation)
	}

	result := findInGazetteer(normalized)

	if result == nil && s.online != nil {
		online, err := s.online.Forward(ctx, locationString, s.countryHint)
		if err != nil {
			log.Printf("Online geocoding failed for %q: %v", locationString, err)
		} else {
			result = online
		}
	}

	if result != nil {
		// Carry the original input through as the display name
		if result.DisplayName == "" {
			result.DisplayName = locationString
		}
		s.cache.Store(normalized, result)
	}

	return result
}

// findInGazetteer matches tokens of the input against the static city and
// state tables. First matching tier wins; no scoring across tiers.
func findInGazetteer(normalized string) *GeocodedLocation {
	terms := splitLocationTerms(normalized)

	// Direct city match
	for _, term := range terms {
		if city, ok := indianCities[term]; ok {
			match := city
			return &match
		}
	}

	// Partial city match (bidirectional substring containment)
	for _, cityKey := range sortedKeys(indianCities) {
		for _, term := range terms {
			if strings.Contains(cityKey, term) || strings.Contains(term, cityKey) {
				match := indianCities[cityKey]
				return &match
			}
		}
	}

	// Direct state match
	for _, term := range terms {
		if state, ok := indianStateCenters[term]; ok {
			match := state
			return &match
		}
	}

	// Partial state match
	for _, stateKey := range sortedKeys(indianStateCenters) {
		for _, term := range terms {
			if strings.Contains(stateKey, term) || strings.Contains(term, stateKey) {
				match := indianStateCenters[stateKey]
				return &match
			}
		}
	}

	return nil
}

func splitLocationTerms(normalized string) []string {
	raw := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// sortedKeys keeps partial matching deterministic across runs
func sortedKeys(m map[string]GeocodedLocation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GenerateRandomLocationInIndia picks a random gazetteer city and perturbs it
// by a small offset, so a report is never permanently unplottable. Callers
// mark these placeholder locations as unvalidated.
func (s *GeocodingService) GenerateRandomLocationInIndia() GeocodedLocation {
	keys := sortedKeys(indianCities)
	city := indianCities[keys[rand.Intn(len(keys))]]

	// ±0.05 degrees (~5km) in each axis
	city.Latitude += (rand.Float64() - 0.5) * 0.1
	city.Longitude += (rand.Float64() - 0.5) * 0.1
	return city
}

// =============================================================================
// Nominatim-style online fallback
// =============================================================================

const geocodingAPITimeout = 15 * time.Second

// NominatimClient calls an OpenStreetMap Nominatim compatible search endpoint
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNominatimClient(baseURL string) *NominatimClient {
	return &NominatimClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: geocodingAPITimeout,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *NominatimClient) Forward(ctx context.Context, query, countryHint string) (*GeocodedLocation, error) {
	apiURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("error parsing geocoding URL: %w", err)
	}

	queryParams := url.Values{}
	queryParams.Set("format", "json")
	queryParams.Set("limit", "1")
	if countryHint != "" {
		queryParams.Set("countrycodes", countryHint)
	}
	queryParams.Set("q", query+", India")
	apiURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating geocoding request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected geocoding status code: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("error decoding geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", first.Lon, err)
	}

	return &GeocodedLocation{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: first.DisplayName,
		City:        extractCity(first.DisplayName),
		State:       extractState(first.DisplayName),
		Country:     "India",
	}, nil
}

func extractCity(displayName string) string {
	parts := strings.Split(displayName, ",")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return "Unknown City"
}

func extractState(displayName string) string {
	parts := strings.Split(displayName, ",")
	// The state is usually the third-to-last address component
	if len(parts) >= 3 {
		if state := strings.TrimSpace(parts[len(parts)-3]); state != "" {
			return state
		}
	}
	return "Unknown State"
}
