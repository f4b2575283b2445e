package handler

import (
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/render"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeudaHandler struct{ svc service.DeudaService }

func NewDeudaHandler(svc service.DeudaService) *DeudaHandler { return &DeudaHandler{svc: svc} }

// PorColegiado godoc
// @Summary Deudas pendientes de un colegiado agrupadas por año
// @Tags deudas
// @Produce json
// @Security BearerAuth
// @Param colegiadoId path string true "ID de colegiado"
// @Param format query string false "json (default) | html"
// @Success 200 {object} dto.DeudasColegiadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/colegiados/{colegiadoId}/deudas [get]
func (h *DeudaHandler) PorColegiado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("colegiadoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.PendientesPorColegiado(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.Deudas(resp)))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary Busca un colegiado por DNI o código de matrícula
// @Tags deudas
// @Produce json
// @Security BearerAuth
// @Param q query string true "DNI (8 dígitos) o matrícula (NN-NNNN)"
// @Success 200 {object} dto.DeudasColegiadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/colegiados/buscar [get]
func (h *DeudaHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.BuscarColegiado(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
