package render

import (
	"strings"
	"testing"

	"portalcaja/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeudasAgrupadasPorAnio(t *testing.T) {
	data := &dto.DeudasColegiadoResponse{
		ColegiadoID: "abc-123",
		Colegiado:   "María Pérez",
		Habil:       false,
		Grupos: []dto.GrupoDeudas{
			{
				Anio: "2024",
				Deudas: []dto.DeudaResponse{
					{ID: "d1", Concepto: "cuota_ordinaria", Periodo: "2024-11", Vencimiento: "2024-11-30", Saldo: decimal.NewFromFloat(35)},
					{ID: "d2", Concepto: "cuota_ordinaria", Periodo: "2024-12", Vencimiento: "2024-12-31", Saldo: decimal.NewFromFloat(35)},
				},
				Subtotal: decimal.NewFromFloat(70),
			},
			{
				Anio: "2025",
				Deudas: []dto.DeudaResponse{
					{ID: "d3", Concepto: "multa", Periodo: "2025-01", Vencimiento: "2025-01-31", Saldo: decimal.NewFromFloat(50)},
				},
				Subtotal: decimal.NewFromFloat(50),
			},
		},
		Total: decimal.NewFromFloat(120),
	}

	html := Deudas(data)

	assert.Contains(t, html, `data-colegiado-id="abc-123"`)
	assert.Contains(t, html, "María Pérez")
	assert.Contains(t, html, "INHÁBIL")
	assert.Contains(t, html, "S/ 70.00")
	assert.Contains(t, html, "S/ 50.00")
	assert.Contains(t, html, "S/ 120.00")
	assert.Contains(t, html, `data-deuda-id="d3"`)
	// 2024 aparece antes que 2025: el orden de los grupos se respeta.
	assert.Less(t, strings.Index(html, "2024"), strings.Index(html, "2025"))
}

func TestDeudasEsPura(t *testing.T) {
	data := &dto.DeudasColegiadoResponse{
		Colegiado: "Juan Quispe",
		Habil:     true,
		Grupos:    []dto.GrupoDeudas{},
	}
	assert.Equal(t, Deudas(data), Deudas(data))
	assert.Contains(t, Deudas(data), "HÁBIL")
}

func TestDeudasEscapaHTML(t *testing.T) {
	data := &dto.DeudasColegiadoResponse{
		Colegiado: `<script>alert("x")</script>`,
		Grupos:    []dto.GrupoDeudas{},
	}
	html := Deudas(data)
	assert.NotContains(t, html, "<script>")
}

func TestCatalogoAgrupadoPorCategoria(t *testing.T) {
	grupos := []dto.GrupoCatalogo{
		{
			Categoria: "Certificados",
			Items: []dto.ItemCatalogoResponse{
				{ID: "i1", Nombre: "Constancia de habilidad", PrecioBase: decimal.NewFromFloat(20)},
			},
		},
		{
			Categoria: "Donaciones",
			Items: []dto.ItemCatalogoResponse{
				{
					ID: "i2", Nombre: "Aporte voluntario",
					PermiteMontoLibre: true,
					MontoMinimo:       decimal.NewFromFloat(1),
					MontoMaximo:       decimal.NewFromFloat(500),
				},
			},
		},
	}

	html := Catalogo(grupos)

	assert.Contains(t, html, "Certificados")
	assert.Contains(t, html, "S/ 20.00")
	assert.Contains(t, html, `data-monto-libre="1"`)
	assert.Contains(t, html, "S/ 1.00")
	assert.Contains(t, html, "S/ 500.00")
}

func TestCatalogoConStock(t *testing.T) {
	grupos := []dto.GrupoCatalogo{
		{
			Categoria: "Merchandising",
			Items: []dto.ItemCatalogoResponse{
				{ID: "i3", Nombre: "Pin institucional", PrecioBase: decimal.NewFromFloat(10), ManejaStock: true, Stock: 7},
			},
		},
	}
	assert.Contains(t, Catalogo(grupos), "7 disp.")
}

func TestCatalogoVacio(t *testing.T) {
	html := Catalogo(nil)
	assert.Contains(t, html, "catalogo-grid")
	assert.NotContains(t, html, "catalogo-item")
}
