package grievances

import "context"

// Query selecciona el snapshot: OwnerID vacío = todos los reclamos.
// El orden es siempre CreatedAt descendente.
type Query struct {
	OwnerID string
}

type Repository interface {
	// Create asigna ID si viene vacío y devuelve el registro persistido.
	Create(ctx context.Context, g Grievance) (Grievance, error)
	GetByID(ctx context.Context, id string) (Grievance, error)
	Update(ctx context.Context, g Grievance) error
	// BatchUpdate es atómico: se aplican todos o ninguno.
	BatchUpdate(ctx context.Context, gs []Grievance) error
	Delete(ctx context.Context, id string) error
	BatchDelete(ctx context.Context, ids []string) error
	List(ctx context.Context, q Query) ([]Grievance, error)
}
