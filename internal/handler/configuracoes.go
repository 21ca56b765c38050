package handler

import (
	"net/http"

	"finesse/internal/dto"
	"finesse/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracoesHandler struct{ svc service.ConfiguracoesService }

func NewConfiguracoesHandler(svc service.ConfiguracoesService) *ConfiguracoesHandler {
	return &ConfiguracoesHandler{svc: svc}
}

// Listar GET /api/config
func (h *ConfiguracoesHandler) Listar(c *gin.Context) {
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.Listar(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Ativa godoc
// @Summary Configuração usada na precificação (a ativa mais recente)
// @Tags config
// @Produce json
// @Success 200 {object} dto.ConfiguracoesResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/config/ativa [get]
func (h *ConfiguracoesHandler) Ativa(c *gin.Context) {
	resp, err := h.svc.Ativa(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracoesHandler) BuscarPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracoesHandler) Criar(c *gin.Context) {
	var req dto.ConfiguracoesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ConfiguracoesHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ConfiguracoesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracoesHandler) AlterarStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), id, *req.Ativo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracoesHandler) Deletar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Deletar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
