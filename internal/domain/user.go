package domain

import "time"

// RoleUser es el rol por defecto; RoleAdmin habilita rutas de administración.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Avatar referencia una imagen subida al almacenamiento externo.
// Identificador y URL se asignan y se limpian siempre juntos.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Mobile       string    `json:"mobile,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsPrivate    bool      `json:"is_private"`
	Role         string    `json:"role"`
	Avatar       *Avatar   `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
