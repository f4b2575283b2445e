package handler

import (
	"net/http"

	"portalcaja/internal/apierror"
	"portalcaja/internal/dto"
	"portalcaja/internal/middleware"
	"portalcaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) sesionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sesion_caja_id inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// Get godoc
// @Summary Devuelve el carrito de la sesión con totales recalculados
// @Tags carrito
// @Produce json
// @Security BearerAuth
// @Param sesionId path string true "ID de sesión de caja"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/caja/{sesionId}/carrito [get]
func (h *CarritoHandler) Get(c *gin.Context) {
	sesionID, ok := h.sesionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), sesionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleDeuda godoc
// @Summary Marca o desmarca una deuda en el carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sesionId path string true "ID de sesión de caja"
// @Param body body dto.ToggleDeudaRequest true "Deuda a alternar"
// @Success 200 {object} dto.CarritoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/{sesionId}/carrito/deudas [post]
func (h *CarritoHandler) ToggleDeuda(c *gin.Context) {
	sesionID, ok := h.sesionID(c)
	if !ok {
		return
	}
	var req dto.ToggleDeudaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ToggleDeuda(c.Request.Context(), sesionID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarItem godoc
// @Summary Agrega un item de catálogo (o monto libre) al carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sesionId path string true "ID de sesión de caja"
// @Param body body dto.AgregarItemRequest true "Item a agregar"
// @Success 200 {object} dto.CarritoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/{sesionId}/carrito/items [post]
func (h *CarritoHandler) AgregarItem(c *gin.Context) {
	sesionID, ok := h.sesionID(c)
	if !ok {
		return
	}
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItemCatalogo(c.Request.Context(), sesionID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuitarItem godoc
// @Summary Quita un item de catálogo del carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sesionId path string true "ID de sesión de caja"
// @Param body body dto.QuitarItemRequest true "Item a quitar"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/caja/{sesionId}/carrito/items/quitar [post]
func (h *CarritoHandler) QuitarItem(c *gin.Context) {
	sesionID, ok := h.sesionID(c)
	if !ok {
		return
	}
	var req dto.QuitarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.QuitarItem(c.Request.Context(), sesionID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vaciar godoc
// @Summary Vacía el carrito de la sesión
// @Tags carrito
// @Security BearerAuth
// @Param sesionId path string true "ID de sesión de caja"
// @Success 204
// @Router /v1/caja/{sesionId}/carrito [delete]
func (h *CarritoHandler) Vaciar(c *gin.Context) {
	sesionID, ok := h.sesionID(c)
	if !ok {
		return
	}
	if err := h.svc.Vaciar(c.Request.Context(), sesionID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary Cobra el carrito y genera el pago
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckoutRequest true "Método de pago y comprobante"
// @Success 201 {object} dto.PagoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/pagos/checkout [post]
func (h *CarritoHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Checkout(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
