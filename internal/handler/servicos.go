package handler

import (
	"bytes"
	"net/http"
	"time"

	"finesse/internal/dto"
	"finesse/internal/infra"
	"finesse/internal/service"

	"github.com/gin-gonic/gin"
)

type ServicosHandler struct {
	svc    service.ServicoService
	precos service.PrecoService
	now    func() time.Time
}

func NewServicosHandler(svc service.ServicoService, precos service.PrecoService) *ServicosHandler {
	return &ServicosHandler{svc: svc, precos: precos, now: time.Now}
}

// Listar godoc
// @Summary Lista serviços
// @Tags servicos
// @Produce json
// @Param nome query string false "Busca por nome (ignora acentos)"
// @Param grupo query string false "Busca por grupo (ignora acentos)"
// @Param ativo query bool false "Filtra por status"
// @Param page query int false "Página (base 0)"
// @Param size query int false "Tamanho da página"
// @Param sort query string false "campo[,asc|desc]"
// @Success 200 {object} dto.PageResponse[dto.ServicoResponse]
// @Router /api/servicos [get]
func (h *ServicosHandler) Listar(c *gin.Context) {
	var f dto.ServicoFilter
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

// Detalhar godoc
// @Summary Detalhe do serviço com atividade, materiais e preço vigente
// @Tags servicos
// @Produce json
// @Param id path int true "ID do serviço"
// @Success 200 {object} dto.ServicoDetailResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/servicos/{id} [get]
func (h *ServicosHandler) Detalhar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Detalhar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Criar godoc
// @Summary Cria serviço (precoPraticado opcional define o preço vigente)
// @Tags servicos
// @Accept json
// @Produce json
// @Param body body dto.ServicoRequest true "Serviço"
// @Success 201 {object} dto.ServicoDetailResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/servicos [post]
func (h *ServicosHandler) Criar(c *gin.Context) {
	var req dto.ServicoRequest
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

// Atualizar PUT /api/servicos/:id
// materiais omitted keeps the current list, [] clears it.
func (h *ServicosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ServicoRequest
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

func (h *ServicosHandler) AlterarStatus(c *gin.Context) {
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

func (h *ServicosHandler) Deletar(c *gin.Context) {
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

// PrecosAtuais godoc
// @Summary Preço atual de cada serviço (vigente ou o mais recente)
// @Tags precos
// @Produce json
// @Success 200 {array} dto.PrecoAtualResponse
// @Router /api/servicos/precos [get]
func (h *ServicosHandler) PrecosAtuais(c *gin.Context) {
	rows, err := h.precos.PrecosAtuais(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PrecosPDF godoc
// @Summary Tabela de preços em PDF
// @Tags precos
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /api/servicos/precos/pdf [get]
func (h *ServicosHandler) PrecosPDF(c *gin.Context) {
	rows, err := h.precos.PrecosAtuais(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.WritePrecosPDF(&buf, rows, h.now()); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="tabela-precos.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Historico godoc
// @Summary Histórico de preços do serviço, mais recente primeiro
// @Tags precos
// @Produce json
// @Param id path int true "ID do serviço"
// @Success 200 {array} dto.PrecoPraticadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/servicos/{id}/precos [get]
func (h *ServicosHandler) Historico(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.precos.Historico(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DefinirPreco godoc
// @Summary Define o preço praticado do serviço
// @Description Fecha o preço vigente e abre um novo. Repetir o preço vigente não altera nada.
// @Tags precos
// @Accept json
// @Produce json
// @Param id path int true "ID do serviço"
// @Param body body dto.PrecoSetRequest true "Preço"
// @Success 200 {object} dto.PrecoSetResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/servicos/{id}/precos [post]
func (h *ServicosHandler) DefinirPreco(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.PrecoSetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.precos.DefinirPreco(c.Request.Context(), id, req.Preco)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Precificacao godoc
// @Summary Custos, markup e preço sugerido do serviço
// @Tags precos
// @Produce json
// @Param id path int true "ID do serviço"
// @Success 200 {object} dto.PrecificacaoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /api/servicos/{id}/precificacao [get]
func (h *ServicosHandler) Precificacao(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.precos.Precificacao(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
