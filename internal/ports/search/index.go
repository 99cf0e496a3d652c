package search

// Document es la proyección indexable de un reclamo.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Urgency     string `json:"urgency"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Address     string `json:"address"`
	CreatedAt   int64  `json:"createdAt"`
}

type Index interface {
	Healthy() bool
	Index(docs ...Document) error
	Delete(ids ...string) error
	// Search devuelve ids por relevancia. ownerID vacío busca en todos los
	// reclamos; si no, solo en los de ese usuario.
	Search(query, ownerID string, limit int) ([]string, error)
}
