package handler

import (
	"net/http"
	"strings"
	"time"

	"finesse/internal/auth"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls the session cookies. Both are HttpOnly.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// ParseSameSite maps "Lax", "Strict" or "None" (case-insensitive); anything else is Lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (cc CookieConfig) set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(name, value, int(ttl.Seconds()), cc.path(), "", cc.Secure, true)
}

func (cc CookieConfig) clear(c *gin.Context, name string) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(name, "", -1, cc.path(), "", cc.Secure, true)
}

func (cc CookieConfig) path() string {
	if cc.Path == "" {
		return "/"
	}
	return cc.Path
}

func (cc CookieConfig) setTokens(c *gin.Context, access, refresh string, accessTTL, refreshTTL time.Duration) {
	cc.set(c, auth.AccessCookie, access, accessTTL)
	cc.set(c, auth.RefreshCookie, refresh, refreshTTL)
}

func (cc CookieConfig) clearTokens(c *gin.Context) {
	cc.clear(c, auth.AccessCookie)
	cc.clear(c, auth.RefreshCookie)
}
