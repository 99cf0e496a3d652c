package grievances

import (
	"strings"
	"time"

	"civic-grievances/internal/domain/status"
)

// All desactiva un filtro de categoría/estado/urgencia.
const All = "all"

type Summary struct {
	Total        int `json:"total"`
	Submitted    int `json:"submitted"`
	Acknowledged int `json:"acknowledged"`
	InProgress   int `json:"inProgress"`
	Resolved     int `json:"resolved"`
	Rejected     int `json:"rejected"`
	Duplicate    int `json:"duplicate"`
	HighUrgency  int `json:"highPriority"`
}

// Summarize cuenta por estado; valores desconocidos solo suman al total.
func Summarize(gs []Grievance) Summary {
	var s Summary
	for _, g := range gs {
		s.Total++
		switch g.Status {
		case status.Submitted:
			s.Submitted++
		case status.Acknowledged:
			s.Acknowledged++
		case status.InProgress:
			s.InProgress++
		case status.Resolved:
			s.Resolved++
		case status.Rejected:
			s.Rejected++
		case status.Duplicate:
			s.Duplicate++
		}
		if g.Urgency == UrgencyHigh {
			s.HighUrgency++
		}
	}
	return s
}

// ResolutionRate en porcentaje entero (0 si no hay reclamos).
func (s Summary) ResolutionRate() int {
	if s.Total == 0 {
		return 0
	}
	return s.Resolved * 100 / s.Total
}

// Filter: cada campo vacío o "all" no filtra. Las fechas son inclusivas.
type Filter struct {
	Category Category
	Status   status.Status
	Urgency  Urgency
	Search   string
	From     *time.Time
	To       *time.Time
}

func active(v string) bool {
	return v != "" && v != All
}

func (f Filter) Match(g Grievance) bool {
	if active(string(f.Category)) && g.Category != f.Category {
		return false
	}
	if active(string(f.Status)) && g.Status != f.Status {
		return false
	}
	if active(string(f.Urgency)) && g.Urgency != f.Urgency {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !containsAny(q, g.Title, g.Description, g.UserName, g.Location.Address) {
			return false
		}
	}
	if f.From != nil && g.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && g.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// Apply conserva el orden de entrada.
func (f Filter) Apply(gs []Grievance) []Grievance {
	out := make([]Grievance, 0, len(gs))
	for _, g := range gs {
		if f.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
