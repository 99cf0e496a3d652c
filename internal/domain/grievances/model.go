package grievances

import (
	"strings"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// StatusChange es una entrada inmutable del historial.
type StatusChange struct {
	Status    status.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	By        string        `json:"by"`
	ByName    string        `json:"byName"`
	Note      string        `json:"note,omitempty"`
}

// Grievance es un reclamo ciudadano con su historial append-only.
// Invariantes: StatusHistory no vacío, su última entrada coincide con Status,
// timestamps no decrecientes y CreatedAt <= todos ellos.
type Grievance struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Urgency     Urgency  `json:"urgency"`
	Location    Location `json:"location"`
	PhotoURL    string   `json:"photoURL,omitempty"`

	Status        status.Status  `json:"status"`
	StatusHistory []StatusChange `json:"statusHistory"`

	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhoto string `json:"userPhoto,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	UpdatedBy     string    `json:"updatedBy,omitempty"`
	UpdatedByName string    `json:"updatedByName,omitempty"`
	AdminNotes    string    `json:"adminNotes,omitempty"`
}

// Clone copia el historial para que nadie comparta el backing array.
func (g Grievance) Clone() Grievance {
	if g.StatusHistory != nil {
		h := make([]StatusChange, len(g.StatusHistory))
		copy(h, g.StatusHistory)
		g.StatusHistory = h
	}
	return g
}

// Actor es la sesión explícita de quien opera; se pasa en cada llamada.
type Actor struct {
	ID    string
	Name  string
	Email string
	Photo string
	Role  roles.Role
}

func (a Actor) DisplayName() string {
	if n := strings.TrimSpace(a.Name); n != "" {
		return n
	}
	if e := strings.TrimSpace(a.Email); e != "" {
		return e
	}
	return a.ID
}

func (a Actor) Can(action roles.Action) bool {
	return roles.Can(a.Role, action)
}
