package handler

import (
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/repository"
	"portalcaja/internal/verificacion"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VerificacionHandler struct {
	pagoRepo       repository.PagoRepository
	constanciaRepo repository.ConstanciaRepository
	manager        *verificacion.Manager
}

func NewVerificacionHandler(pagoRepo repository.PagoRepository, constanciaRepo repository.ConstanciaRepository, manager *verificacion.Manager) *VerificacionHandler {
	return &VerificacionHandler{pagoRepo: pagoRepo, constanciaRepo: constanciaRepo, manager: manager}
}

// Estado godoc
// @Summary Estado de la verificación automática de un pago digital
// @Tags verificaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de verificación"
// @Success 200 {object} dto.VerificacionEstadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/verificaciones/{id} [get]
func (h *VerificacionHandler) Estado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	v, err := h.pagoRepo.FindVerificacionByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("verificación no encontrada"))
		return
	}

	resp := dto.VerificacionEstadoResponse{
		ID:                v.ID.String(),
		PagoID:            v.PagoID.String(),
		Estado:            v.Estado,
		Intentos:          v.Intentos,
		IntentosRestantes: v.MaxIntentos - v.Intentos,
	}
	if resp.IntentosRestantes < 0 {
		resp.IntentosRestantes = 0
	}

	if v.Estado == "verificada" && v.CodigoOperacion != nil {
		conf := &dto.ConfirmacionBancaria{
			CodigoOperacion: *v.CodigoOperacion,
			AutoAprobado:    v.AutoAprobado,
		}
		if v.Banco != nil {
			conf.Banco = *v.Banco
		}
		// The widget shows whether the payment changed the member's standing
		// and whether a certificate came out of it.
		if pago, err := h.pagoRepo.FindByID(c.Request.Context(), v.PagoID); err == nil {
			if pago.Colegiado != nil {
				conf.HabilidadActualizada = pago.Colegiado.Habil
			}
			if pago.ColegiadoID != nil {
				if cs, err := h.constanciaRepo.ListByColegiado(c.Request.Context(), *pago.ColegiadoID); err == nil {
					for _, con := range cs {
						if con.PagoID != nil && *con.PagoID == pago.ID {
							conf.ConstanciaEmitida = true
							break
						}
					}
				}
			}
		}
		resp.Confirmacion = conf
	}
	c.JSON(http.StatusOK, resp)
}

// Relanzar godoc
// @Summary Reinicia la verificación automática de un pago expirado
// @Tags verificaciones
// @Security BearerAuth
// @Param id path string true "ID de verificación"
// @Success 202
// @Failure 400 {object} apierror.APIError
// @Router /v1/verificaciones/{id}/relanzar [post]
func (h *VerificacionHandler) Relanzar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	v, err := h.pagoRepo.FindVerificacionByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("verificación no encontrada"))
		return
	}
	if v.Estado == "verificada" {
		c.JSON(http.StatusBadRequest, apierror.New("el pago ya fue verificado"))
		return
	}

	// Manual retry resets the window; the manager stops any prior poller.
	v.Estado = "pendiente"
	v.Intentos = 0
	if err := h.pagoRepo.UpdateVerificacion(c.Request.Context(), v); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	h.manager.Lanzar(v.ID.String())
	c.Status(http.StatusAccepted)
}

// Detener godoc
// @Summary Detiene el poller de una verificación (cierre del modal)
// @Tags verificaciones
// @Security BearerAuth
// @Param id path string true "ID de verificación"
// @Success 204
// @Router /v1/verificaciones/{id}/detener [post]
func (h *VerificacionHandler) Detener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	h.manager.Detener(id)
	c.Status(http.StatusNoContent)
}
