package locations

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"civic-grievances/internal/middleware"
	"civic-grievances/internal/ports/auth"
	"civic-grievances/internal/ports/geocoding"

	"github.com/go-chi/chi/v5"
)

type fakeProvider struct {
	addr    string
	err     error
	places  []geocoding.Place
	gotBBox *geocoding.BBox
}

func (f *fakeProvider) Reverse(context.Context, float64, float64) (string, error) {
	return f.addr, f.err
}

func (f *fakeProvider) Search(_ context.Context, _ string, bbox *geocoding.BBox) ([]geocoding.Place, error) {
	f.gotBBox = bbox
	return f.places, f.err
}

func TestReverse(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeProvider{addr: "HITEC City, Hyderabad"}, nil, nil)
	res, err := svc.Reverse(ctx, 17.4474, 78.3762)
	if err != nil || res.Address != "HITEC City, Hyderabad" || res.Fallback {
		t.Fatalf("unexpected %+v %v", res, err)
	}

	for name, p := range map[string]geocoding.Provider{
		"no results":     &fakeProvider{err: geocoding.ErrNoResults},
		"provider error": &fakeProvider{err: errors.New("boom")},
		"no provider":    nil,
	} {
		res, err := NewService(p, nil, nil).Reverse(ctx, 17.4474, 78.3762)
		if err != nil || !res.Fallback || res.Address != "Location at 17.4474, 78.3762" {
			t.Fatalf("%s: unexpected %+v %v", name, res, err)
		}
	}

	if _, err := svc.Reverse(ctx, 91, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	for _, c := range [][2]float64{{math.NaN(), 78.3}, {17.4, math.NaN()}, {math.Inf(1), 78.3}, {17.4, math.Inf(-1)}} {
		if _, err := svc.Reverse(ctx, c[0], c[1]); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%v: expected invalid input, got %v", c, err)
		}
	}
}

func TestSearch(t *testing.T) {
	bbox := &geocoding.BBox{MinLng: 78.2, MinLat: 17.2, MaxLng: 78.7, MaxLat: 17.6}
	p := &fakeProvider{places: []geocoding.Place{{Latitude: 17.44, Longitude: 78.34, Address: "Gachibowli"}}}
	svc := NewService(p, bbox, nil)

	got, err := svc.Search(context.Background(), "gachibowli")
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected %v %v", got, err)
	}
	if p.gotBBox != bbox {
		t.Fatalf("bbox not forwarded")
	}

	if _, err := svc.Search(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	p.err = errors.New("upstream 503")
	if _, err := svc.Search(context.Background(), "x"); err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestHandlers(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-Test-User") != "" {
				req = req.WithContext(middleware.WithSession(req.Context(), middleware.Session{Claims: auth.Claims{UserID: "u1"}}))
			}
			next.ServeHTTP(w, req)
		})
	})
	RegisterRoutes(r, NewService(&fakeProvider{addr: "Kondapur"}, nil, nil))

	do := func(path string, authed bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authed {
			req.Header.Set("X-Test-User", "1")
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	if rr := do("/geocode/reverse?lat=17.46&lng=78.36", false); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr := do("/geocode/reverse?lat=abc&lng=78.36", true); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := do("/geocode/reverse?lat=NaN&lng=78.36", true); rr.Code != http.StatusBadRequest {
		t.Fatalf("NaN: expected 400, got %d", rr.Code)
	}

	rr := do("/geocode/reverse?lat=17.46&lng=78.36", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var res Resolved
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Address != "Kondapur" || res.Latitude != 17.46 {
		t.Fatalf("unexpected %+v", res)
	}

	if rr := do("/geocode/search?q=", true); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
