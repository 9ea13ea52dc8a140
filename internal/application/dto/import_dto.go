package dto

// Contrato de respuesta de la importación de Excel. El frontend depende de la
// forma exacta { data: { results: { summary, createdBins, errors, warnings,
// itemsProcessed } } }, así que se respeta tal cual.

// ImportRowError error de una fila (la numeración de fila es la del archivo, 1-based).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportRowWarning advertencia de una fila (ej. éxito parcial multi-bin).
type ImportRowWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportItemProcessed resumen por fila procesada (vista previa, con tope).
type ImportItemProcessed struct {
	SKU            string `json:"sku"`
	SuccessfulBins int    `json:"successfulBins"`
	TotalBins      int    `json:"totalBins"`
	TotalQuantity  int64  `json:"totalQuantity"`
}

// ImportSummary conteos globales del archivo.
type ImportSummary struct {
	TotalRows    int     `json:"totalRows"`
	SuccessCount int     `json:"successCount"`
	ErrorCount   int     `json:"errorCount"`
	SuccessRate  float64 `json:"successRate"`
}

// ImportResults cuerpo interno del resultado.
type ImportResults struct {
	Summary        ImportSummary         `json:"summary"`
	CreatedBins    []string              `json:"createdBins"`
	Errors         []ImportRowError      `json:"errors"`
	Warnings       []ImportRowWarning    `json:"warnings"`
	ItemsProcessed []ImportItemProcessed `json:"itemsProcessed"`
}

// ImportResponse envoltura final.
type ImportResponse struct {
	Data struct {
		Results ImportResults `json:"results"`
	} `json:"data"`
}

// NewImportResponse arma la envoltura { data: { results } }.
func NewImportResponse(results ImportResults) ImportResponse {
	var resp ImportResponse
	resp.Data.Results = results
	return resp
}
