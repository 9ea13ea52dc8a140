package inventory

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
	"github.com/dfmorales/almacen-api/pkg/logger"
)

// Modos de importación.
const (
	// ImportModeSeed carga inicial de inventario: la cantidad de la fila es un
	// total a repartir entre la lista de bins separada por comas.
	ImportModeSeed = "inventory"
	// ImportModeInbound entradas: exactamente un bin por fila; sku+bin repetido
	// en el mismo archivo se fusiona sumando cantidades.
	ImportModeInbound = "inset"
)

const itemsProcessedCap = 50

// ImportUseCase procesa un libro de Excel contra el libro de existencias.
// Cada fila es su propio dominio de fallo: una fila mala no aborta ni el lote
// ni el archivo; solo fallas de archivo (libro ilegible, encabezados ausentes)
// abortan la importación completa.
type ImportUseCase struct {
	txRunner TxRunner
	audit    *AuditRecorder
	log      *logger.Logger

	batchSize int // filas por lote
	workers   int // filas en paralelo dentro de un lote (pool acotado)
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner TxRunner, audit *AuditRecorder, log *logger.Logger, batchSize, workers int) *ImportUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	if workers <= 0 {
		workers = 8
	}
	return &ImportUseCase{txRunner: txRunner, audit: audit, log: log, batchSize: batchSize, workers: workers}
}

// rowOutcome resultado de una fila, acumulado bajo mutex.
type rowOutcome struct {
	row         int
	sku         string
	totalBins   int
	okBins      int
	qty         int64
	createdBins []string
	errMsg      string
	warnMsg     string
}

// ImportFile parsea la primera hoja y procesa las filas de datos en lotes.
func (uc *ImportUseCase) ImportFile(ctx context.Context, r io.Reader, mode string, user entity.ActorRef) (dto.ImportResults, error) {
	var results dto.ImportResults

	f, err := excelize.OpenReader(r)
	if err != nil {
		return results, fmt.Errorf("libro ilegible: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return results, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return results, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return results, fmt.Errorf("la hoja %q está vacía", sheets[0])
	}

	cols, err := MapHeaders(rows[0])
	if err != nil {
		return results, err
	}
	dataRows := rows[1:]

	// Un orderNo por archivo: es la clave de fusión para sku+bin repetidos
	// dentro del mismo import (modo inbound).
	importOrderNo := "EXCEL-" + uuid.New().String()[:8]

	var (
		mu       sync.Mutex
		outcomes = make([]rowOutcome, 0, len(dataRows))
		created  = make(map[string]struct{})
		audits   []*entity.AuditLogEntry
	)

	for start := 0; start < len(dataRows); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(uc.workers)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				// fila 1 es el encabezado; las filas de datos arrancan en 2
				out := uc.processRow(gctx, mode, cols, dataRows[i], i+2, importOrderNo, user)
				mu.Lock()
				outcomes = append(outcomes, out.outcome)
				for _, b := range out.outcome.createdBins {
					created[b] = struct{}{}
				}
				audits = append(audits, out.audits...)
				mu.Unlock()
				return nil // los errores de fila no abortan el lote
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}
	}

	uc.audit.RecordMany(ctx, audits)

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].row < outcomes[j].row })
	return buildResults(outcomes, created), nil
}

type rowResult struct {
	outcome rowOutcome
	audits  []*entity.AuditLogEntry
}

func (uc *ImportUseCase) processRow(ctx context.Context, mode string, cols ColumnMap, row []string, rowNum int, importOrderNo string, user entity.ActorRef) rowResult {
	out := rowResult{outcome: rowOutcome{row: rowNum}}

	sku := strings.TrimSpace(cell(row, cols.SKU))
	binRaw := strings.TrimSpace(cell(row, cols.Bin))
	qtyRaw := strings.TrimSpace(cell(row, cols.Qty))
	out.outcome.sku = sku

	if sku == "" {
		out.outcome.errMsg = "sku vacío"
		return out
	}
	bins := SplitBins(binRaw)
	if len(bins) == 0 {
		out.outcome.errMsg = "bin vacío"
		return out
	}
	if mode == ImportModeInbound && len(bins) > 1 {
		out.outcome.errMsg = "el modo de entradas admite un solo bin por fila"
		return out
	}
	total := SanitizeQuantity(qtyRaw)
	if total <= 0 {
		out.outcome.errMsg = fmt.Sprintf("cantidad inválida: %q", qtyRaw)
		return out
	}

	out.outcome.totalBins = len(bins)
	out.outcome.qty = total
	parts := SplitQuantity(total, len(bins))

	for i, bin := range bins {
		qty := parts[i]
		if qty == 0 {
			// más bins que unidades: las colas del reparto quedan en cero
			continue
		}
		var binCreated bool
		err := uc.txRunner.Run(ctx, func(
			invRepo repository.InventoryRepository,
			insetRepo repository.InsetRepository,
			_ repository.OutsetRepository,
			binRepo repository.BinRepository,
		) error {
			wasCreated, err := binRepo.UpsertByName(ctx, bin, user.ID)
			if err != nil {
				return fmt.Errorf("crear bin %q: %w", bin, err)
			}
			binCreated = wasCreated
			rec, err := AdjustStock(ctx, invRepo, sku, bin, qty, "")
			if err != nil {
				return err
			}
			if mode == ImportModeInbound {
				if err := insetRepo.UpsertImport(ctx, &entity.InsetRecord{
					SKU:       sku,
					OrderNo:   importOrderNo,
					Bin:       bin,
					Quantity:  qty,
					UserID:    user.ID,
					UserName:  user.Name,
					CreatedAt: time.Now(),
				}); err != nil {
					return err
				}
			}
			out.audits = append(out.audits, &entity.AuditLogEntry{
				Action:      entity.AuditActionExcelImport,
				TargetTable: "inventory",
				TargetID:    rec.ID,
				Changes: map[string]any{
					"skuId":    sku,
					"bin":      bin,
					"quantity": qty,
					"row":      rowNum,
				},
				UserID:    user.ID,
				UserName:  user.Name,
				CreatedAt: time.Now(),
			})
			return nil
		})
		if err != nil {
			uc.log.Warn().Err(err).Int("row", rowNum).Str("sku", sku).Str("bin", bin).Msg("fila de importación fallida")
			if out.outcome.errMsg == "" {
				out.outcome.errMsg = err.Error()
			}
			continue
		}
		// el alta del bin solo se reporta si la transacción de la fila confirmó
		if binCreated {
			out.outcome.createdBins = append(out.outcome.createdBins, bin)
		}
		out.outcome.okBins++
	}

	if out.outcome.okBins > 0 && out.outcome.okBins < out.outcome.totalBins && out.outcome.errMsg != "" {
		// éxito parcial multi-bin: cuenta como éxito con advertencia
		out.outcome.warnMsg = fmt.Sprintf("solo %d de %d bins procesados: %s",
			out.outcome.okBins, out.outcome.totalBins, out.outcome.errMsg)
		out.outcome.errMsg = ""
	}
	return out
}

func buildResults(outcomes []rowOutcome, created map[string]struct{}) dto.ImportResults {
	results := dto.ImportResults{
		CreatedBins:    make([]string, 0, len(created)),
		Errors:         []dto.ImportRowError{},
		Warnings:       []dto.ImportRowWarning{},
		ItemsProcessed: []dto.ImportItemProcessed{},
	}
	for name := range created {
		results.CreatedBins = append(results.CreatedBins, name)
	}
	sort.Strings(results.CreatedBins)

	for _, out := range outcomes {
		results.Summary.TotalRows++
		if out.errMsg != "" {
			results.Summary.ErrorCount++
			results.Errors = append(results.Errors, dto.ImportRowError{Row: out.row, Message: out.errMsg})
			continue
		}
		results.Summary.SuccessCount++
		if out.warnMsg != "" {
			results.Warnings = append(results.Warnings, dto.ImportRowWarning{Row: out.row, Message: out.warnMsg})
		}
		if len(results.ItemsProcessed) < itemsProcessedCap {
			results.ItemsProcessed = append(results.ItemsProcessed, dto.ImportItemProcessed{
				SKU:            out.sku,
				SuccessfulBins: out.okBins,
				TotalBins:      out.totalBins,
				TotalQuantity:  out.qty,
			})
		}
	}
	if results.Summary.TotalRows > 0 {
		rate := float64(results.Summary.SuccessCount) / float64(results.Summary.TotalRows) * 100
		results.Summary.SuccessRate = math.Round(rate*100) / 100
	}
	return results
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
