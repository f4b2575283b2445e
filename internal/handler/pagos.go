package handler

import (
	"net/http"
	"strconv"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/middleware"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagoHandler struct{ svc service.PagoService }

func NewPagoHandler(svc service.PagoService) *PagoHandler { return &PagoHandler{svc: svc} }

// Historial godoc
// @Summary Historial paginado de pagos con filtros
// @Tags pagos
// @Produce json
// @Security BearerAuth
// @Param colegiado_id query string false "Filtrar por colegiado"
// @Param estado query string false "Filtrar por estado"
// @Param desde query string false "Fecha desde (YYYY-MM-DD)"
// @Param hasta query string false "Fecha hasta (YYYY-MM-DD)"
// @Param page query int false "Página" default(1)
// @Param limit query int false "Tamaño de página" default(20)
// @Success 200 {object} dto.PagoListResponse
// @Router /v1/pagos [get]
func (h *PagoHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := dto.PagoFilter{
		ColegiadoID: c.Query("colegiado_id"),
		Estado:      c.Query("estado"),
		Desde:       c.Query("desde"),
		Hasta:       c.Query("hasta"),
		Page:        page,
		Limit:       limit,
	}
	resp, err := h.svc.Historial(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle godoc
// @Summary Detalle de un pago con sus items
// @Tags pagos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pago"
// @Success 200 {object} dto.PagoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pagos/{id} [get]
func (h *PagoHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anula un pago emitiendo una nota de crédito (supervisor)
// @Tags pagos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pago"
// @Param body body dto.AnularPagoRequest true "Motivo de anulación"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/pagos/{id}/anular [post]
func (h *PagoHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Anular(c.Request.Context(), id, usuarioID, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
