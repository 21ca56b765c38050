package dto

type CriarUsuarioRequest struct {
	Nome   string `json:"nome"   validate:"required,min=2,max=120"`
	Email  string `json:"email"  validate:"required,email,max=180"`
	Senha  string `json:"senha"  validate:"required"`
	Perfil string `json:"perfil"`
}

// AtualizarUsuarioRequest ignores empty fields. Email may only repeat the current value.
type AtualizarUsuarioRequest struct {
	Nome   string `json:"nome"   validate:"omitempty,min=2,max=120"`
	Email  string `json:"email"  validate:"omitempty,email"`
	Perfil string `json:"perfil"`
	Ativo  *bool  `json:"ativo"`
}

type AlterarSenhaRequest struct {
	NovaSenha string `json:"novaSenha" validate:"required"`
}

type UsuarioResponse struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Email   string `json:"email"`
	Ativo   bool   `json:"ativo"`
	Perfil  string `json:"perfil"`
	IsAdmin bool   `json:"isAdmin"`
}

type EstatisticasUsuariosResponse struct {
	Total          int64 `json:"total"`
	Ativos         int64 `json:"ativos"`
	Inativos       int64 `json:"inativos"`
	Admins         int64 `json:"admins"`
	Visualizadores int64 `json:"visualizadores"`
}
