package auth

// Claims representa la identidad verificada de quien llama.
type Claims struct {
	UserID  string
	Email   string
	Name    string
	Picture string

	// Role es opcional; si el proveedor lo afirma tiene prioridad sobre la
	// clasificación por email.
	Role string
}
