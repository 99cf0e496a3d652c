// Package mapbox implementa geocoding.Provider sobre la API de Mapbox Geocoding v5.
package mapbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"civic-grievances/internal/platform/httpclient"
	"civic-grievances/internal/ports/geocoding"
)

const (
	DefaultBaseURL = "https://api.mapbox.com"

	placesPath   = "/geocoding/v5/mapbox.places/"
	reverseTypes = "address,poi,place"
	searchLimit  = 5
)

type Config struct {
	BaseURL string
	Token   string
	Country string // ISO 3166 alpha-2, p.ej. "in"
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	token   string
	country string
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("mapbox: token is required")
	}
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("mapbox: %w", err)
	}
	return &Client{http: hc, token: cfg.Token, country: strings.ToLower(strings.TrimSpace(cfg.Country))}, nil
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"` // [lng, lat]
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("types", reverseTypes)

	var fc featureCollection
	path := placesPath + formatCoord(lng) + "," + formatCoord(lat) + ".json"
	if err := c.http.GetJSON(ctx, path, q, &fc); err != nil {
		return "", fmt.Errorf("mapbox reverse: %w", err)
	}
	if len(fc.Features) == 0 || fc.Features[0].PlaceName == "" {
		return "", geocoding.ErrNoResults
	}
	return fc.Features[0].PlaceName, nil
}

func (c *Client) Search(ctx context.Context, query string, bbox *geocoding.BBox) ([]geocoding.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, geocoding.ErrNoResults
	}
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("limit", strconv.Itoa(searchLimit))
	if c.country != "" {
		q.Set("country", c.country)
	}
	if bbox != nil {
		q.Set("bbox", bbox.String())
	}

	var fc featureCollection
	if err := c.http.GetJSON(ctx, placesPath+url.PathEscape(query)+".json", q, &fc); err != nil {
		return nil, fmt.Errorf("mapbox search: %w", err)
	}

	out := make([]geocoding.Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Center) < 2 {
			continue
		}
		out = append(out, geocoding.Place{Latitude: f.Center[1], Longitude: f.Center[0], Address: f.PlaceName})
	}
	if len(out) == 0 {
		return nil, geocoding.ErrNoResults
	}
	return out, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
