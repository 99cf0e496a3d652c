package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNoResults = errors.New("no geocoding results")

type Place struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// BBox es minLng,minLat,maxLng,maxLat.
type BBox struct {
	MinLng, MinLat, MaxLng, MaxLat float64
}

type Provider interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
	Search(ctx context.Context, query string, bbox *BBox) ([]Place, error)
}

// ParseBBox lee "minLng,minLat,maxLng,maxLat". Vacío devuelve nil.
func ParseBBox(raw string) (*BBox, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox: expected 4 values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox: %w", err)
		}
		v[i] = f
	}
	if v[0] >= v[2] || v[1] >= v[3] {
		return nil, errors.New("bbox: min must be lower than max")
	}
	return &BBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}, nil
}

func (b BBox) String() string {
	return strconv.FormatFloat(b.MinLng, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.MinLat, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.MaxLng, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.MaxLat, 'f', -1, 64)
}
