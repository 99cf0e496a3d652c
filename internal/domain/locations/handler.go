package locations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"civic-grievances/internal/middleware"
	"civic-grievances/internal/ports/geocoding"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/geocode", func(gr chi.Router) {
		gr.Get("/reverse", reverseHandler(svc))
		gr.Get("/search", searchHandler(svc))
	})
}

type searchResponse struct {
	Items []geocoding.Place `json:"items"`
}

// reverseHandler godoc
// @Summary Geocodificación inversa
// @Description Devuelve la dirección para unas coordenadas. Si el proveedor no responde se devuelve "Location at lat, lng" con `fallback` true.
// @Tags geocode
// @Produce json
// @Param lat query number true "Latitud"
// @Param lng query number true "Longitud"
// @Success 200 {object} Resolved
// @Failure 400 {string} string "coordenadas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Router /geocode/reverse [get]
func reverseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "lat and lng must be numbers", http.StatusBadRequest)
			return
		}

		res, err := svc.Reverse(r.Context(), lat, lng)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// searchHandler godoc
// @Summary Buscar lugares
// @Description Búsqueda de direcciones acotada al área configurada (máximo 5 resultados).
// @Tags geocode
// @Produce json
// @Param q query string true "Texto a buscar"
// @Success 200 {object} searchResponse
// @Failure 400 {string} string "q requerido"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "proveedor no disponible"
// @Router /geocode/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		places, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{Items: places})
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
