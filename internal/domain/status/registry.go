// Package status es el catálogo cerrado de estados de un reclamo y su flujo permitido.
package status

import "strings"

type Status string

const (
	Submitted    Status = "submitted"
	Acknowledged Status = "acknowledged"
	InProgress   Status = "in-progress"
	Resolved     Status = "resolved"
	Rejected     Status = "rejected"
	Duplicate    Status = "duplicate"
)

// Info es la ficha de presentación de un estado.
type Info struct {
	Value       Status `json:"value"`
	Label       string `json:"label"`
	ColorTag    string `json:"colorTag"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var catalog = []Info{
	{Submitted, "Submitted", "default", "📥", "Issue has been reported and is awaiting review"},
	{Acknowledged, "Acknowledged", "info", "✅", "Municipal authorities have acknowledged the issue"},
	{InProgress, "In Progress", "warning", "🔄", "Work has started on resolving the issue"},
	{Resolved, "Resolved", "success", "🎉", "Issue has been successfully resolved"},
	{Rejected, "Rejected", "error", "❌", "Issue cannot be addressed at this time"},
	{Duplicate, "Duplicate", "secondary", "📋", "Similar issue already reported"},
}

// flujo hacia adelante; los estados sin entrada son terminales
var next = map[Status][]Status{
	Submitted:    {Acknowledged, InProgress, Resolved, Rejected, Duplicate},
	Acknowledged: {InProgress, Resolved, Rejected},
	InProgress:   {Resolved, Rejected},
}

// All devuelve los estados en orden de presentación.
func All() []Status {
	out := make([]Status, 0, len(catalog))
	for _, i := range catalog {
		out = append(out, i.Value)
	}
	return out
}

func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup es total: un valor desconocido devuelve la ficha de Submitted.
func Lookup(s Status) Info {
	for _, i := range catalog {
		if i.Value == s {
			return i
		}
	}
	return catalog[0]
}

func Valid(s Status) bool {
	for _, i := range catalog {
		if i.Value == s {
			return true
		}
	}
	return false
}

// Parse normaliza input externo ("In-Progress ", "RESOLVED").
func Parse(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, Valid(s)
}

func AllowedNext(s Status) []Status {
	n := next[s]
	out := make([]Status, len(n))
	copy(out, n)
	return out
}

func CanTransition(from, to Status) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(s Status) bool {
	return Valid(s) && len(next[s]) == 0
}
