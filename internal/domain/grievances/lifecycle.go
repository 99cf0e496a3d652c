package grievances

import (
	"fmt"
	"strings"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
)

// Change es un pedido de modificación; los punteros nil no se tocan.
type Change struct {
	Status     *status.Status
	Urgency    *Urgency
	Category   *Category
	AdminNotes *string

	// Note va a la entrada de historial si hay cambio de estado.
	Note string
	// Force saltea el flujo permitido (solo administradores).
	Force bool
}

// FlowPolicy decide si se aplica status.AllowedNext.
type FlowPolicy struct {
	Enforce bool
}

// Apply calcula el nuevo registro sin efectos: nunca muta g.
// modified=false significa que no hay nada que persistir.
func Apply(g Grievance, ch Change, actor Actor, now time.Time, policy FlowPolicy) (Grievance, bool, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return g, false, invalid("actor", "missing identity")
	}
	if ch.Force && !actor.Can(roles.ActionForceTransition) {
		return g, false, fmt.Errorf("%w: force requires administrator", ErrForbidden)
	}
	if ch.Status != nil && !status.Valid(*ch.Status) {
		return g, false, invalid("status", fmt.Sprintf("unknown status %q", *ch.Status))
	}
	if ch.Urgency != nil && !ch.Urgency.Valid() {
		return g, false, invalid("urgency", fmt.Sprintf("unknown urgency %q", *ch.Urgency))
	}
	if ch.Category != nil && !ch.Category.Valid() {
		return g, false, invalid("category", fmt.Sprintf("unknown category %q", *ch.Category))
	}

	out := g.Clone()
	modified := false

	if ch.Status != nil && *ch.Status != g.Status {
		target := *ch.Status
		if policy.Enforce && !ch.Force && !status.CanTransition(g.Status, target) {
			return g, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, target)
		}

		ts := now
		if n := len(out.StatusHistory); n > 0 && ts.Before(out.StatusHistory[n-1].Timestamp) {
			ts = out.StatusHistory[n-1].Timestamp
		}
		note := strings.TrimSpace(ch.Note)
		if note == "" {
			note = "Status updated to " + status.Lookup(target).Label
		}

		out.StatusHistory = append(out.StatusHistory, StatusChange{
			Status:    target,
			Timestamp: ts,
			By:        actor.ID,
			ByName:    actor.DisplayName(),
			Note:      note,
		})
		out.Status = target
		modified = true
	}
	if ch.Urgency != nil && *ch.Urgency != out.Urgency {
		out.Urgency = *ch.Urgency
		modified = true
	}
	if ch.Category != nil && *ch.Category != out.Category {
		out.Category = *ch.Category
		modified = true
	}
	if ch.AdminNotes != nil && *ch.AdminNotes != out.AdminNotes {
		out.AdminNotes = *ch.AdminNotes
		modified = true
	}

	if !modified {
		return g, false, nil
	}

	out.UpdatedAt = now
	out.UpdatedBy = actor.ID
	out.UpdatedByName = actor.DisplayName()
	return out, true, nil
}

// Progress mapea el estado a un porcentaje de avance.
func Progress(s status.Status) int {
	switch s {
	case status.Submitted:
		return 25
	case status.Acknowledged:
		return 50
	case status.InProgress:
		return 75
	case status.Resolved:
		return 100
	default:
		return 0
	}
}
