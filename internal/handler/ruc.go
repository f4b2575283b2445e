package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"portalcaja/internal/apierror"
	"portalcaja/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rucCacheTTL = 24 * time.Hour

var rucPath = regexp.MustCompile(`^\d{11}$`)

// RUCHandler resolves RUC numbers for the factura form, caching SUNAT
// responses so repeated lookups at the counter don't hit the sidecar.
type RUCHandler struct {
	sunat *infra.SunatClient
	rdb   *redis.Client
}

func NewRUCHandler(sunat *infra.SunatClient, rdb *redis.Client) *RUCHandler {
	return &RUCHandler{sunat: sunat, rdb: rdb}
}

// Consultar godoc
// @Summary Consulta los datos de un RUC para emisión de factura
// @Tags ruc
// @Produce json
// @Security BearerAuth
// @Param ruc path string true "RUC de 11 dígitos"
// @Success 200 {object} infra.DatosRUC
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/ruc/{ruc} [get]
func (h *RUCHandler) Consultar(c *gin.Context) {
	ruc := c.Param("ruc")
	if !rucPath.MatchString(ruc) {
		c.JSON(http.StatusBadRequest, apierror.New("el RUC debe tener 11 dígitos"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "ruc:" + ruc

	if raw, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var datos infra.DatosRUC
		if json.Unmarshal(raw, &datos) == nil {
			c.JSON(http.StatusOK, datos)
			return
		}
	}

	datos, err := h.sunat.ConsultarRUC(ctx, ruc)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if raw, err := json.Marshal(datos); err == nil {
		if err := h.rdb.Set(ctx, cacheKey, raw, rucCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("ruc", ruc).Msg("no se pudo cachear la consulta RUC")
		}
	}
	c.JSON(http.StatusOK, datos)
}
