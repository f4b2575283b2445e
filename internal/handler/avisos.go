package handler

import (
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvisosHandler struct {
	avisos service.AvisosService
}

func NewAvisosHandler(avisos service.AvisosService) *AvisosHandler {
	return &AvisosHandler{avisos: avisos}
}

func colegiadoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("colegiadoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de colegiado inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// Get godoc
// @Summary Configuración de avisos tributarios del colegiado
// @Tags avisos
// @Produce json
// @Security BearerAuth
// @Param colegiadoId path string true "ID de colegiado"
// @Success 200 {object} dto.ConfigAvisos
// @Router /v1/colegiados/{colegiadoId}/avisos [get]
func (h *AvisosHandler) Get(c *gin.Context) {
	id, ok := colegiadoID(c)
	if !ok {
		return
	}
	cfg, err := h.avisos.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Save godoc
// @Summary Guarda la configuración de avisos del colegiado
// @Tags avisos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param colegiadoId path string true "ID de colegiado"
// @Param request body dto.ConfigAvisos true "Configuración"
// @Success 200 {object} dto.ConfigAvisos
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/colegiados/{colegiadoId}/avisos [put]
func (h *AvisosHandler) Save(c *gin.Context) {
	id, ok := colegiadoID(c)
	if !ok {
		return
	}
	var cfg dto.ConfigAvisos
	if !bindAndValidate(c, &cfg) {
		return
	}
	saved, err := h.avisos.Save(c.Request.Context(), id, &cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete godoc
// @Summary Elimina la configuración de avisos del colegiado
// @Tags avisos
// @Security BearerAuth
// @Param colegiadoId path string true "ID de colegiado"
// @Success 204
// @Router /v1/colegiados/{colegiadoId}/avisos [delete]
func (h *AvisosHandler) Delete(c *gin.Context) {
	id, ok := colegiadoID(c)
	if !ok {
		return
	}
	if err := h.avisos.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
