package handler

import (
	"fmt"
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConstanciaHandler struct {
	constancias service.ConstanciaService
}

func NewConstanciaHandler(constancias service.ConstanciaService) *ConstanciaHandler {
	return &ConstanciaHandler{constancias: constancias}
}

// Solicitar godoc
// @Summary Emite una constancia de habilidad a pedido
// @Tags constancias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EmitirConstanciaRequest true "Solicitud"
// @Success 201 {object} dto.ConstanciaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/constancias [post]
func (h *ConstanciaHandler) Solicitar(c *gin.Context) {
	var req dto.EmitirConstanciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.constancias.SolicitarManual(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Detalle godoc
// @Summary Detalle de una constancia
// @Tags constancias
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de constancia"
// @Success 200 {object} dto.ConstanciaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/constancias/{id} [get]
func (h *ConstanciaHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.constancias.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorColegiado godoc
// @Summary Constancias emitidas a un colegiado
// @Tags constancias
// @Produce json
// @Security BearerAuth
// @Param colegiadoId path string true "ID de colegiado"
// @Success 200 {array} dto.ConstanciaResponse
// @Router /v1/colegiados/{colegiadoId}/constancias [get]
func (h *ConstanciaHandler) PorColegiado(c *gin.Context) {
	id, ok := colegiadoID(c)
	if !ok {
		return
	}
	resp, err := h.constancias.ListByColegiado(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar godoc
// @Summary Descarga el PDF de una constancia emitida
// @Tags constancias
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de constancia"
// @Success 200 {file} binary
// @Failure 409 {object} apierror.APIError
// @Router /v1/constancias/{id}/pdf [get]
func (h *ConstanciaHandler) Descargar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	path, err := h.constancias.PDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, fmt.Sprintf("constancia-%s.pdf", id))
}
