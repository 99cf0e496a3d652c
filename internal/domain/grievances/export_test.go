package grievances

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"civic-grievances/internal/domain/status"
)

func TestWriteCSV(t *testing.T) {
	created := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	gs := []Grievance{{
		ID:        "g-1",
		Title:     `Pothole "huge"`,
		Category:  CategoryPothole,
		Status:    status.InProgress,
		Urgency:   UrgencyHigh,
		UserName:  "Ravi",
		UserEmail: "ravi@gmail.com",
		Location:  Location{Latitude: 17.4474, Longitude: 78.3762, Address: "HITEC City, Hyderabad"},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, gs); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"ID","Title","Category"`) {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := `"g-1","Pothole ""huge""","pothole","in-progress","high","Ravi","ravi@gmail.com","17.4474, 78.3762","HITEC City, Hyderabad","2025-03-15T10:00:00Z","2025-03-15T11:00:00Z"`
	if lines[1] != want {
		t.Fatalf("row mismatch\n got: %s\nwant: %s", lines[1], want)
	}
}

func TestWriteCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected only the header, got %q", buf.String())
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC))
	if got != "grievances_2025-01-09.csv" {
		t.Fatalf("got %q", got)
	}
}
