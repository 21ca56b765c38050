package dto

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// UsuarioSessao is the identity echoed by login and check.
type UsuarioSessao struct {
	ID    int64    `json:"id"`
	Nome  string   `json:"nome"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type LoginResponse struct {
	Usuario UsuarioSessao `json:"usuario"`
}

type CheckResponse struct {
	Authenticated bool           `json:"authenticated"`
	Usuario       *UsuarioSessao `json:"usuario,omitempty"`
}

// TokenPair is returned by the auth service; handlers move it into cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
