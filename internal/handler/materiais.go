package handler

import (
	"net/http"

	"finesse/internal/dto"
	"finesse/internal/service"

	"github.com/gin-gonic/gin"
)

type MateriaisHandler struct{ svc service.MaterialService }

func NewMateriaisHandler(svc service.MaterialService) *MateriaisHandler {
	return &MateriaisHandler{svc: svc}
}

// Listar godoc
// @Summary Lista materiais
// @Tags materiais
// @Produce json
// @Param produto query string false "Busca por produto (ignora acentos)"
// @Param ativo query bool false "Filtra por status"
// @Param page query int false "Página (base 0)"
// @Param size query int false "Tamanho da página"
// @Param sort query string false "campo[,asc|desc]"
// @Success 200 {object} dto.PageResponse[dto.MaterialResponse]
// @Router /api/materiais [get]
func (h *MateriaisHandler) Listar(c *gin.Context) {
	var f dto.MaterialFilter
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

func (h *MateriaisHandler) BuscarPorID(c *gin.Context) {
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
// @Summary Cria material (custoUnitario é calculado)
// @Tags materiais
// @Accept json
// @Produce json
// @Param body body dto.MaterialRequest true "Material"
// @Success 201 {object} dto.MaterialResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/materiais [post]
func (h *MateriaisHandler) Criar(c *gin.Context) {
	var req dto.MaterialRequest
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

func (h *MateriaisHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MaterialRequest
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

func (h *MateriaisHandler) AlterarStatus(c *gin.Context) {
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

func (h *MateriaisHandler) Deletar(c *gin.Context) {
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
