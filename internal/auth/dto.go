package auth

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lasgemelas/disfraces-backend/internal/users"
)

// RegisterDTO is the public self-registration body. Codigo is optional; when
// absent the service assigns one.
type RegisterDTO struct {
	Codigo     string  `json:"codigo"`
	Nombre     string  `json:"nombre" validate:"required"`
	Apellido   string  `json:"apellido" validate:"required"`
	Correo     string  `json:"correo" validate:"required,email"`
	Contrasena string  `json:"contrasena" validate:"required,min=8"`
	Telefono   *string `json:"telefono"`
	Direccion  *string `json:"direccion"`
}

// RegisterResult is the 201 payload for a new account.
type RegisterResult struct {
	UserID uuid.UUID `json:"userId"`
	Codigo string    `json:"codigo"`
}

// LoginDTO carries the password plus one of the two identifier forms the
// storefront sends: the business codigo under "usuario", or the correo.
type LoginDTO struct {
	Usuario    string `json:"usuario"`
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena" validate:"required"`
}

// Identifier returns whichever identifier the client supplied, usuario first.
func (d LoginDTO) Identifier() string {
	if v := strings.TrimSpace(d.Usuario); v != "" {
		return v
	}
	return strings.TrimSpace(d.Correo)
}

// LoginResult is the 200 payload with the minted token pair.
type LoginResult struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
	Usuario      *users.UserDTO `json:"usuario"`
}

// RefreshDTO rotates a refresh token tied to the (possibly expired) access token.
type RefreshDTO struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResult is the rotated token pair.
type RefreshResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
