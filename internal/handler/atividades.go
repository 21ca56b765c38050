package handler

import (
	"net/http"

	"finesse/internal/dto"
	"finesse/internal/service"

	"github.com/gin-gonic/gin"
)

type AtividadesHandler struct{ svc service.AtividadeService }

func NewAtividadesHandler(svc service.AtividadeService) *AtividadesHandler {
	return &AtividadesHandler{svc: svc}
}

// Listar godoc
// @Summary Lista atividades
// @Tags atividades
// @Produce json
// @Param titulo query string false "Busca por nome (ignora acentos)"
// @Param ativo query bool false "Filtra por status"
// @Param page query int false "Página (base 0)"
// @Param size query int false "Tamanho da página"
// @Param sort query string false "campo[,asc|desc]"
// @Success 200 {object} dto.PageResponse[dto.AtividadeResponse]
// @Router /api/atividades [get]
func (h *AtividadesHandler) Listar(c *gin.Context) {
	var f dto.AtividadeFilter
	if !bindQuery(c, &f) {
		return
	}
	page, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// BuscarPorID GET /api/atividades/:id
func (h *AtividadesHandler) BuscarPorID(c *gin.Context) {
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

// Criar godoc
// @Summary Cria atividade
// @Tags atividades
// @Accept json
// @Produce json
// @Param body body dto.AtividadeRequest true "Atividade"
// @Success 201 {object} dto.AtividadeResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/atividades [post]
func (h *AtividadesHandler) Criar(c *gin.Context) {
	var req dto.AtividadeRequest
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

// Atualizar PUT /api/atividades/:id
func (h *AtividadesHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AtividadeRequest
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

// AlterarStatus PATCH /api/atividades/:id
func (h *AtividadesHandler) AlterarStatus(c *gin.Context) {
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

// Deletar DELETE /api/atividades/:id
func (h *AtividadesHandler) Deletar(c *gin.Context) {
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
