// Package render produces the HTML fragments embedded by the portal widgets:
// the debts panel grouped by year and the catalog grid grouped by category.
// Renderers are pure: same input, same output, no state and no I/O.
package render

import (
	"html/template"
	"strings"

	"portalcaja/internal/dto"
)

var deudasTmpl = template.Must(template.New("deudas").Parse(strings.TrimSpace(`
<div class="deudas-panel" data-colegiado-id="{{.ColegiadoID}}">
  <div class="deudas-header">
    <span class="colegiado-nombre">{{.Colegiado}}</span>
    {{if .Habil}}<span class="badge badge-habil">HÁBIL</span>{{else}}<span class="badge badge-inhabil">INHÁBIL</span>{{end}}
  </div>
{{range .Grupos}}  <div class="deudas-grupo">
    <div class="grupo-titulo">{{.Anio}} <span class="grupo-subtotal">S/ {{.Subtotal.StringFixed 2}}</span></div>
{{range .Deudas}}    <label class="deuda-fila" data-deuda-id="{{.ID}}">
      <input type="checkbox" class="deuda-check" value="{{.ID}}">
      <span class="deuda-concepto">{{.Concepto}}</span>
      <span class="deuda-periodo">{{.Periodo}}</span>
      <span class="deuda-vencimiento">{{.Vencimiento}}</span>
      <span class="deuda-saldo">S/ {{.Saldo.StringFixed 2}}</span>
    </label>
{{end}}  </div>
{{end}}  <div class="deudas-total">Total pendiente: <strong>S/ {{.Total.StringFixed 2}}</strong></div>
</div>
`)))

var catalogoTmpl = template.Must(template.New("catalogo").Parse(strings.TrimSpace(`
<div class="catalogo-grid">
{{range .}}  <div class="catalogo-categoria">
    <div class="categoria-titulo">{{.Categoria}}</div>
{{range .Items}}    <button class="catalogo-item" data-item-id="{{.ID}}"{{if .PermiteMontoLibre}} data-monto-libre="1"{{end}}>
      <span class="item-nombre">{{.Nombre}}</span>
      {{if .PermiteMontoLibre}}<span class="item-precio">S/ {{.MontoMinimo.StringFixed 2}} — {{.MontoMaximo.StringFixed 2}}</span>{{else}}<span class="item-precio">S/ {{.PrecioBase.StringFixed 2}}</span>{{end}}
      {{if .ManejaStock}}<span class="item-stock">{{.Stock}} disp.</span>{{end}}
    </button>
{{end}}  </div>
{{end}}</div>
`)))

// Deudas renders the member's pending debts panel.
func Deudas(data *dto.DeudasColegiadoResponse) string {
	var sb strings.Builder
	// Template and data shapes are fixed at compile time; execution cannot
	// fail on valid DTOs.
	_ = deudasTmpl.Execute(&sb, data)
	return sb.String()
}

// Catalogo renders the register grid of sellable items.
func Catalogo(grupos []dto.GrupoCatalogo) string {
	var sb strings.Builder
	_ = catalogoTmpl.Execute(&sb, grupos)
	return sb.String()
}
