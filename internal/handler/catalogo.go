package handler

import (
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/render"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Listar godoc
// @Summary Catálogo de conceptos cobrables agrupado por categoría
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param format query string false "json (default) | html"
// @Success 200 {array} dto.GrupoCatalogo
// @Router /v1/catalogo [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	grupos, err := h.svc.GruposPorCategoria(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.Catalogo(grupos)))
		return
	}
	c.JSON(http.StatusOK, grupos)
}

// Crear godoc
// @Summary Crea un item de catálogo (solo administrador)
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearItemCatalogoRequest true "Item"
// @Success 201 {object} dto.ItemCatalogoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/catalogo [post]
func (h *CatalogoHandler) Crear(c *gin.Context) {
	var req dto.CrearItemCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
