package handler

import (
	"net/http"

	"portalcaja/internal/asistente"
	"portalcaja/internal/dto"

	"github.com/gin-gonic/gin"
)

type AsistenteHandler struct {
	asistente *asistente.Asistente
}

func NewAsistenteHandler(a *asistente.Asistente) *AsistenteHandler {
	return &AsistenteHandler{asistente: a}
}

// Consultar godoc
// @Summary Clasifica una consulta de voz o texto del cajero
// @Tags asistente
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConsultaAsistenteRequest true "Consulta"
// @Success 200 {object} dto.ConsultaAsistenteResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/asistente/consulta [post]
func (h *AsistenteHandler) Consultar(c *gin.Context) {
	var req dto.ConsultaAsistenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res := h.asistente.Consultar(c.Request.Context(), req.Texto)
	c.JSON(http.StatusOK, dto.ConsultaAsistenteResponse{
		Intencion:        res.Intencion,
		Confianza:        res.Confianza,
		TextoNormalizado: res.TextoNormalizado,
		Respuesta:        res.Respuesta,
	})
}
