package grievances

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func validInput() SubmitInput {
	return SubmitInput{
		Title:       "  Deep pothole  ",
		Description: "Near the metro station",
		Category:    CategoryPothole,
		Urgency:     UrgencyHigh,
		Latitude:    ptr(17.4474),
		Longitude:   ptr(78.3762),
	}
}

func TestSubmit_ValidationHappensBeforeAnyExternalCall(t *testing.T) {
	cases := map[string]func(*SubmitInput){
		"empty title":        func(in *SubmitInput) { in.Title = "   " },
		"empty description":  func(in *SubmitInput) { in.Description = "" },
		"missing latitude":   func(in *SubmitInput) { in.Latitude = nil },
		"missing longitude":  func(in *SubmitInput) { in.Longitude = nil },
		"bad latitude":       func(in *SubmitInput) { in.Latitude = ptr(123.0) },
		"NaN latitude":       func(in *SubmitInput) { in.Latitude = ptr(math.NaN()) },
		"infinite longitude": func(in *SubmitInput) { in.Longitude = ptr(math.Inf(1)) },
		"bad category":       func(in *SubmitInput) { in.Category = "noise" },
		"bad urgency":        func(in *SubmitInput) { in.Urgency = "critical" },
		"non image photo": func(in *SubmitInput) {
			in.Photo = &PhotoInput{Filename: "a.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")}
		},
		"photo too large": func(in *SubmitInput) {
			in.Photo = &PhotoInput{Filename: "a.jpg", ContentType: "image/jpeg", Size: 6 << 20, Body: strings.NewReader("x")}
		},
		"photo body larger than declared": func(in *SubmitInput) {
			in.Photo = &PhotoInput{Filename: "a.jpg", ContentType: "image/jpeg", Size: 1, Body: bytes.NewReader(make([]byte, 5<<20+1))}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newTestRepo()
			ph := &fakePhotos{}
			svc := NewService(repo, Options{Photos: ph})

			in := validInput()
			mutate(&in)
			_, err := svc.Submit(context.Background(), citizen, in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if ph.calls != 0 || repo.creates != 0 {
				t.Fatalf("no collaborator may be called: photos=%d creates=%d", ph.calls, repo.creates)
			}
		})
	}
}

func TestSubmit_BuildsInitialRecord(t *testing.T) {
	repo := newTestRepo()
	bus := &fakeBus{}
	svc := NewService(repo, Options{Bus: bus})
	svc.now = fixedClock(t0)

	in := validInput()
	in.Category = ""
	in.Urgency = ""
	res, err := svc.Submit(context.Background(), citizen, in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	g := repo.get(res.Grievance.ID)
	if g.Title != "Deep pothole" {
		t.Fatalf("title should be trimmed, got %q", g.Title)
	}
	if g.Category != CategoryOther || g.Urgency != UrgencyMedium {
		t.Fatalf("defaults not applied: %s %s", g.Category, g.Urgency)
	}
	if g.Status != status.Submitted || len(g.StatusHistory) != 1 {
		t.Fatalf("unexpected status/history: %s %d", g.Status, len(g.StatusHistory))
	}
	h := g.StatusHistory[0]
	if h.Note != "initial submission" || h.By != citizen.ID || h.ByName != citizen.Name || !h.Timestamp.Equal(t0) {
		t.Fatalf("unexpected seed entry %+v", h)
	}
	if !g.CreatedAt.Equal(t0) || g.CreatedAt.After(h.Timestamp) {
		t.Fatalf("createdAt must not be after the first history entry")
	}
	if g.UserID != citizen.ID || g.UserEmail != citizen.Email || g.UserName != citizen.Name {
		t.Fatalf("reporter snapshot mismatch: %+v", g)
	}
	if g.Location.Address != "Location at 17.4474, 78.3762" {
		t.Fatalf("address fallback mismatch: %q", g.Location.Address)
	}
	if bus.count() != 1 {
		t.Fatalf("expected one change event, got %d", bus.count())
	}
}

func TestSubmit_PhotoUploadFailureDegradesSilently(t *testing.T) {
	repo := newTestRepo()
	ph := &fakePhotos{err: errors.New("storage down")}
	m := metrics.New()
	svc := NewService(repo, Options{Photos: ph, Metrics: m})

	in := validInput()
	in.Photo = &PhotoInput{Filename: "road.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}

	res, err := svc.Submit(context.Background(), citizen, in)
	if err != nil {
		t.Fatalf("submit should succeed without photo: %v", err)
	}
	if !res.PhotoDropped || res.Grievance.PhotoURL != "" {
		t.Fatalf("expected dropped photo, got %+v", res)
	}
	if ph.calls != 1 || repo.creates != 1 {
		t.Fatalf("unexpected calls photos=%d creates=%d", ph.calls, repo.creates)
	}
	if got := testutil.ToFloat64(m.PhotoFailures()); got != 1 {
		t.Fatalf("photo failure metric = %v", got)
	}
}

func TestSubmit_PhotoUploaded(t *testing.T) {
	repo := newTestRepo()
	ph := &fakePhotos{}
	svc := NewService(repo, Options{Photos: ph})

	in := validInput()
	in.Photo = &PhotoInput{Filename: "road.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}

	res, err := svc.Submit(context.Background(), citizen, in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.PhotoDropped || !strings.HasPrefix(res.Grievance.PhotoURL, "https://cdn.test/grievance-photos/") {
		t.Fatalf("unexpected photo url %q", res.Grievance.PhotoURL)
	}
	if string(ph.got.Data) != "jpeg" || ph.got.ContentType != "image/jpeg" {
		t.Fatalf("photo bytes not forwarded: %+v", ph.got)
	}
}

func TestSubmit_StoreErrorIsSurfaced(t *testing.T) {
	repo := newTestRepo()
	repo.createErr = errors.New("permission denied")
	bus := &fakeBus{}
	svc := NewService(repo, Options{Bus: bus})

	_, err := svc.Submit(context.Background(), citizen, validInput())
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected store error, got %v", err)
	}
	if bus.count() != 0 {
		t.Fatalf("no event may be published on failure")
	}
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	svc := NewService(newTestRepo(), Options{})
	if _, err := svc.Submit(context.Background(), Actor{}, validInput()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for anonymous actor, got %v", err)
	}
}
