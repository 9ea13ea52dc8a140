package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ColumnMap índices de columna resueltos desde la fila de encabezado.
type ColumnMap struct {
	SKU int
	Bin int
	Qty int
}

// Fragmentos buscados (case-insensitive) en el encabezado. La columna de
// cantidad acepta cualquiera de balance/qty/quantity.
var qtyFragments = []string{"balance", "qty", "quantity"}

// MapHeaders resuelve qué columna es cuál a partir de la fila de encabezado.
// Falla rápido con un mensaje que nombra los encabezados faltantes.
func MapHeaders(header []string) (ColumnMap, error) {
	cols := ColumnMap{SKU: -1, Bin: -1, Qty: -1}
	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(cell))
		if lower == "" {
			continue
		}
		switch {
		case cols.SKU < 0 && strings.Contains(lower, "sku"):
			cols.SKU = i
		case cols.Bin < 0 && strings.Contains(lower, "bin"):
			cols.Bin = i
		case cols.Qty < 0 && containsAny(lower, qtyFragments):
			cols.Qty = i
		}
	}
	var missing []string
	if cols.SKU < 0 {
		missing = append(missing, "SKU")
	}
	if cols.Bin < 0 {
		missing = append(missing, "BIN")
	}
	if cols.Qty < 0 {
		missing = append(missing, "QUANTITY/QTY/BALANCE")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("encabezados faltantes en el archivo: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// SanitizeQuantity normaliza una celda de cantidad: quita todo lo que no sea
// dígito, punto o signo, parsea como decimal, toma el piso y recorta a >= 0.
// Valores no parseables quedan en 0 (el caller los rechaza: 0 no es cantidad
// válida de importación).
func SanitizeQuantity(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0
	}
	n := d.Floor().IntPart()
	if n < 0 {
		return 0
	}
	return n
}

// SplitBins separa una lista de bins por coma, tolerando espacios arbitrarios
// alrededor de cada nombre. Entradas vacías se descartan.
func SplitBins(raw string) []string {
	parts := strings.Split(raw, ",")
	bins := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			bins = append(bins, name)
		}
	}
	return bins
}

// SplitQuantity reparte un total entre n bins: floor(total/n) para cada uno y
// el resto (total mod n) repartido de a una unidad a los primeros bins, en orden.
// La suma de las partes siempre es exactamente el total.
func SplitQuantity(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := total / int64(n)
	rem := total % int64(n)
	parts := make([]int64, n)
	for i := range parts {
		parts[i] = base
		if int64(i) < rem {
			parts[i]++
		}
	}
	return parts
}
