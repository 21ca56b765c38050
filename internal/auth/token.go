// Package auth issues and validates the signed access and refresh tokens
// carried in the session cookies.
package auth

import (
	"errors"
	"strconv"
	"time"

	"finesse/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("token inválido ou expirado")
	ErrWrongType    = errors.New("tipo de token inválido")
)

// Claims are embedded in both token types. Username, Email and Roles are
// empty on refresh tokens.
type Claims struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Type     string   `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TokenProvider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenProvider(secret string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (p *TokenProvider) AccessTTL() time.Duration  { return p.accessTTL }
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

func (p *TokenProvider) GenerateAccess(u *model.Usuario) (string, error) {
	return p.sign(Claims{
		Username: u.Nome,
		Email:    u.Email,
		Roles:    u.Roles(),
		Type:     TypeAccess,
	}, u.ID, p.accessTTL)
}

func (p *TokenProvider) GenerateRefresh(u *model.Usuario) (string, error) {
	return p.sign(Claims{Type: TypeRefresh}, u.ID, p.refreshTTL)
}

func (p *TokenProvider) sign(c Claims, userID int64, ttl time.Duration) (string, error) {
	now := p.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
}

// Parse validates signature, expiry and the expected token type.
// All failures other than a type mismatch are reported as ErrInvalidToken.
func (p *TokenProvider) Parse(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Type != wantType {
		return nil, ErrWrongType
	}
	if _, err := claims.UserID(); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}

// Cookie names carrying the tokens.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Roles.
const (
	RoleAdmin        = "ROLE_ADMIN"
	RoleVisualizador = "ROLE_VISUALIZADOR"
)
