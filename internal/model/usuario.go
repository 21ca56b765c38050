package model

import (
	"fmt"
	"strings"
	"time"
)

// Perfil is the single role of a user.
type Perfil string

const (
	PerfilAdmin        Perfil = "ADMIN"
	PerfilVisualizador Perfil = "VISUALIZADOR"
)

// ParsePerfil accepts "ADMIN", "VISUALIZADOR" or their ROLE_ forms.
func ParsePerfil(s string) (Perfil, error) {
	v := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
	switch Perfil(v) {
	case PerfilAdmin, PerfilVisualizador:
		return Perfil(v), nil
	}
	return "", fmt.Errorf("Perfil inválido: %s", s)
}

// Role is the authority string carried in tokens.
func (p Perfil) Role() string { return "ROLE_" + string(p) }

// Usuario is a system user. Email is the login identity and is stored lowercased.
type Usuario struct {
	ID        int64  `gorm:"primaryKey"`
	Nome      string `gorm:"size:120;not null"`
	Email     string `gorm:"size:180;uniqueIndex;not null"`
	SenhaHash string `gorm:"not null" json:"-"`
	Perfil    Perfil `gorm:"type:varchar(20);not null"`
	Ativo     bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }

// Roles returns the authorities of u (always exactly one).
func (u *Usuario) Roles() []string { return []string{u.Perfil.Role()} }

func (u *Usuario) IsAdmin() bool { return u.Perfil == PerfilAdmin }
