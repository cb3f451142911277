// Package report contiene las consultas de solo lectura sobre el inventario:
// listados paginados, stock bajo, estadísticas, dashboard e informe PDF.
//
// Nada en este paquete escribe en el almacenamiento ni guarda estado entre llamadas;
// cada consulta lee directamente de los repositorios.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const dashboardRecentMovements = 5 // movimientos en el widget del dashboard

// Options parámetros de consulta; los valores <= 0 toman el default.
type Options struct {
	LowStockThreshold int
	ItemsPageSize     int
	MovementsPageSize int
	MaxPageSize       int
	Currency          string
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = entity.DefaultLowStockThreshold
	}
	if o.ItemsPageSize <= 0 {
		o.ItemsPageSize = 15
	}
	if o.MovementsPageSize <= 0 {
		o.MovementsPageSize = 20
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 100
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// ReportUseCase consultas y reportes de inventario.
type ReportUseCase struct {
	snapshot   SnapshotReader
	itemRepo   repository.ItemRepository
	movRepo    repository.StockMovementRepository
	reportRepo repository.ReportRepository
	generator  StockReportGenerator
	log        *logger.Logger
	opts       Options
}

// NewReportUseCase construye el caso de uso. generator puede ser nil si no se sirve el PDF.
func NewReportUseCase(
	snapshot SnapshotReader,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	reportRepo repository.ReportRepository,
	generator StockReportGenerator,
	log *logger.Logger,
	opts Options,
) *ReportUseCase {
	return &ReportUseCase{
		snapshot:   snapshot,
		itemRepo:   itemRepo,
		movRepo:    movRepo,
		reportRepo: reportRepo,
		generator:  generator,
		log:        log.Named("report"),
		opts:       opts.withDefaults(),
	}
}

// LowStockThreshold umbral configurado.
func (uc *ReportUseCase) LowStockThreshold() int { return uc.opts.LowStockThreshold }

// ListItems lista artículos filtrados, ordenados y paginados (página 1-based).
// Un filtro de categoría que no es un id válido no restringe el listado.
func (uc *ReportUseCase) ListItems(ctx context.Context, filter dto.ItemFilter, page dto.PageRequest) (*dto.ItemListResponse, error) {
	if err := page.Normalize(uc.opts.ItemsPageSize, uc.opts.MaxPageSize); err != nil {
		return nil, err
	}
	q := repository.ItemQuery{
		Search: strings.TrimSpace(filter.Search),
		Sort:   repository.ParseItemSort(filter.Sort),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}
	if id, ok := canonicalID(filter.CategoryID); ok {
		q.CategoryID = id
	}
	items, total, err := uc.itemRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items: dto.NewItemResponses(items, uc.opts.LowStockThreshold),
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// ListMovements lista movimientos, más recientes primero. Un id de artículo inválido
// no coincide con ningún movimiento.
func (uc *ReportUseCase) ListMovements(ctx context.Context, filter dto.MovementFilter, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if err := page.Normalize(uc.opts.MovementsPageSize, uc.opts.MaxPageSize); err != nil {
		return nil, err
	}
	var itemID string
	if raw := strings.TrimSpace(filter.ItemID); raw != "" {
		id, ok := canonicalID(raw)
		if !ok {
			return &dto.MovementListResponse{
				Items: []dto.MovementResponse{},
				Page:  dto.NewPageResponse(page, 0),
			}, nil
		}
		itemID = id
	}
	list, total, err := uc.movRepo.List(ctx, repository.MovementQuery{
		ItemID: itemID,
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: dto.NewMovementResponses(list),
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// RecentMovements últimos limit movimientos de todos los artículos.
func (uc *ReportUseCase) RecentMovements(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 {
		limit = dashboardRecentMovements
	}
	list, _, err := uc.movRepo.List(ctx, repository.MovementQuery{Limit: limit})
	if err != nil {
		return nil, err
	}
	return dto.NewMovementResponses(list), nil
}

// LowStock artículos con quantity < threshold. threshold nil usa el umbral configurado;
// 0 es un umbral válido que no devuelve nada.
func (uc *ReportUseCase) LowStock(ctx context.Context, threshold *int) (*dto.LowStockResponse, error) {
	limit := uc.opts.LowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, fmt.Errorf("%w: threshold no puede ser negativo (%d)", domain.ErrInvalidInput, *threshold)
		}
		limit = *threshold
	}
	items, err := uc.itemRepo.ListBelow(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &dto.LowStockResponse{
		Threshold: limit,
		Items:     dto.NewItemResponses(items, limit),
	}, nil
}

// Stats agregados del inventario calculados en una sola lectura.
func (uc *ReportUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := uc.reportRepo.GetStats(ctx, uc.opts.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := newStatsResponse(stats)
	return &out, nil
}

// Dashboard resumen de portada. Las tres consultas son independientes y se lanzan en paralelo.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	type statsResult struct {
		stats repository.StockStats
		err   error
	}
	type itemsResult struct {
		items []*entity.Item
		err   error
	}
	type movementsResult struct {
		movements []*entity.StockMovement
		err       error
	}

	statsCh := make(chan statsResult, 1)
	lowCh := make(chan itemsResult, 1)
	movCh := make(chan movementsResult, 1)

	go func() {
		s, err := uc.reportRepo.GetStats(ctx, uc.opts.LowStockThreshold)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		items, err := uc.itemRepo.ListBelow(ctx, uc.opts.LowStockThreshold)
		lowCh <- itemsResult{items, err}
	}()
	go func() {
		list, _, err := uc.movRepo.List(ctx, repository.MovementQuery{Limit: dashboardRecentMovements})
		movCh <- movementsResult{list, err}
	}()

	stats := <-statsCh
	low := <-lowCh
	recent := <-movCh

	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas: %w", stats.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}

	return &dto.DashboardResponse{
		Stats:           newStatsResponse(stats.stats),
		LowStockItems:   dto.NewItemResponses(low.items, uc.opts.LowStockThreshold),
		RecentMovements: dto.NewMovementResponses(recent.movements),
	}, nil
}

// StockReportPDF genera el informe de valoración de todo el inventario.
// Filas y totales se leen de la misma instantánea. Devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", errors.New("report: generador de PDF no configurado")
	}
	var (
		items []*entity.Item
		stats repository.StockStats
	)
	err := uc.snapshot.ReadSnapshot(ctx, func(itemRepo repository.ItemRepository, reportRepo repository.ReportRepository) error {
		var err error
		if items, err = itemRepo.ListAll(ctx); err != nil {
			return err
		}
		stats, err = reportRepo.GetStats(ctx, uc.opts.LowStockThreshold)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	now := uc.opts.Now()
	pdf, err := uc.generator.GenerateStockReport(ctx, StockReport{
		Title:       "Informe de stock",
		GeneratedAt: now,
		Currency:    uc.opts.Currency,
		Threshold:   uc.opts.LowStockThreshold,
		Items:       items,
		Stats:       stats,
	})
	if err != nil {
		return nil, "", fmt.Errorf("report: generar pdf: %w", err)
	}
	uc.log.Info().Int("items", len(items)).Int("bytes", len(pdf)).Msg("informe de stock generado")
	return pdf, "stock-" + now.Format("20060102") + ".pdf", nil
}

func newStatsResponse(s repository.StockStats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalItems:      s.TotalItems,
		TotalCategories: s.TotalCategories,
		TotalValue:      s.TotalValue.Round(2),
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
	}
}

// canonicalID devuelve el id en forma canónica (minúsculas con guiones) si es un UUID válido.
func canonicalID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return s, false
	}
	return id.String(), true
}
