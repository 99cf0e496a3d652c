// Package locations expone geocodificación directa e inversa para elegir la
// ubicación de un reclamo.
package locations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/geocoding"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	provider geocoding.Provider
	bbox     *geocoding.BBox
	log      logger.Logger
}

// NewService: provider nil deja solo la dirección de respaldo.
func NewService(provider geocoding.Provider, bbox *geocoding.BBox, l logger.Logger) *Service {
	if l == nil {
		l = logger.Nop()
	}
	return &Service{provider: provider, bbox: bbox, log: l.With(logger.Fields{"module": "locations"})}
}

// Resolved es el resultado de Reverse. Fallback indica que la dirección
// se generó a partir de las coordenadas.
type Resolved struct {
	geocoding.Place
	Fallback bool `json:"fallback"`
}

func (s *Service) Reverse(ctx context.Context, lat, lng float64) (Resolved, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return Resolved{}, fmt.Errorf("%w: coordinates must be finite", ErrInvalidInput)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Resolved{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	place := geocoding.Place{Latitude: lat, Longitude: lng}

	if s.provider != nil {
		addr, err := s.provider.Reverse(ctx, lat, lng)
		switch {
		case err == nil && strings.TrimSpace(addr) != "":
			place.Address = addr
			return Resolved{Place: place}, nil
		case err != nil && !errors.Is(err, geocoding.ErrNoResults):
			logger.FromContext(ctx, s.log).Warn("reverse geocode failed", logger.Fields{"err": err})
		}
	}

	place.Address = fmt.Sprintf("Location at %.4f, %.4f", lat, lng)
	return Resolved{Place: place, Fallback: true}, nil
}

// Search busca lugares dentro del bbox configurado. Sin provider devuelve vacío.
func (s *Service) Search(ctx context.Context, query string) ([]geocoding.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return []geocoding.Place{}, nil
	}
	places, err := s.provider.Search(ctx, query, s.bbox)
	if errors.Is(err, geocoding.ErrNoResults) {
		return []geocoding.Place{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("geocode search: %w", err)
	}
	return places, nil
}
