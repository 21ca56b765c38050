package middleware

import (
	"context"
	"net/http"

	"finesse/internal/apierror"
	"finesse/internal/auth"
	"finesse/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
)

// UserLookup resolves the user behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*model.Usuario, error)
}

// JWTAuth authenticates from the access_token cookie. Refresh tokens, unknown
// users and inactive users are all rejected the same way.
func JWTAuth(tokens *auth.TokenProvider, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Authenticate(c, tokens, users)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Não autenticado"))
			return
		}
		id, _ := claims.UserID()
		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, id)
		c.Next()
	}
}

// Authenticate resolves the session without aborting. Used by JWTAuth and by
// endpoints that answer unauthenticated callers themselves.
func Authenticate(c *gin.Context, tokens *auth.TokenProvider, users UserLookup) (*auth.Claims, bool) {
	raw, err := c.Cookie(auth.AccessCookie)
	if err != nil || raw == "" {
		return nil, false
	}
	claims, err := tokens.Parse(raw, auth.TypeAccess)
	if err != nil {
		log.Debug().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("access token rejeitado")
		return nil, false
	}
	id, _ := claims.UserID()
	u, err := users.FindByID(c.Request.Context(), id)
	if err != nil || !u.Ativo {
		log.Debug().Int64("user_id", id).Msg("usuário do token inexistente ou inativo")
		return nil, false
	}
	claims.Roles = u.Roles()
	return claims, true
}

// RequireRole rejects requests whose token carries none of the allowed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Não autenticado"))
			return
		}
		for _, r := range roles {
			if claims.HasRole(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acesso negado"))
	}
}

// AdminForWrites lets any authenticated user read and requires ROLE_ADMIN for
// every other method.
func AdminForWrites() gin.HandlerFunc {
	admin := RequireRole(auth.RoleAdmin)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			admin(c)
		}
	}
}

// GetClaims returns the authenticated claims, or nil.
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
