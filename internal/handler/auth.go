package handler

import (
	"net/http"

	"finesse/internal/apierror"
	"finesse/internal/auth"
	"finesse/internal/dto"
	"finesse/internal/middleware"
	"finesse/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc     service.AuthService
	tokens  *auth.TokenProvider
	users   middleware.UserLookup
	cookies CookieConfig
}

func NewAuthHandler(svc service.AuthService, tokens *auth.TokenProvider, users middleware.UserLookup, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, users: users, cookies: cookies}
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 429 {object} apierror.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sessao, pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookies.setTokens(c, pair.AccessToken, pair.RefreshToken, h.tokens.AccessTTL(), h.tokens.RefreshTTL())
	c.JSON(http.StatusOK, dto.LoginResponse{Usuario: *sessao})
}

// Refresh godoc
// @Summary Renova o access token a partir do cookie refresh_token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(auth.RefreshCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("Refresh token não encontrado"))
		return
	}
	access, err := h.svc.Refresh(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookies.set(c, auth.AccessCookie, access, h.tokens.AccessTTL())
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Token renovado com sucesso"})
}

// Logout godoc
// @Summary Remove os cookies de sessão
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.clearTokens(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout realizado com sucesso"})
}

// Check godoc
// @Summary Estado da sessão atual
// @Tags auth
// @Produce json
// @Success 200 {object} dto.CheckResponse
// @Failure 401 {object} dto.CheckResponse
// @Router /api/auth/check [get]
// @Router /api/auth/me [get]
func (h *AuthHandler) Check(c *gin.Context) {
	claims, ok := middleware.Authenticate(c, h.tokens, h.users)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.CheckResponse{Authenticated: false})
		return
	}
	id, _ := claims.UserID()
	sessao, err := h.svc.Sessao(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.CheckResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, dto.CheckResponse{Authenticated: true, Usuario: sessao})
}
