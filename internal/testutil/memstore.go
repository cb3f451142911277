// Package testutil provee dobles de prueba en memoria de los puertos de persistencia.
// Store reproduce las restricciones del esquema SQL (UNIQUE, FK con cascada, CHECK) y la
// atomicidad de TxRunner: la transacción trabaja sobre una copia que solo se publica en Commit.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Operaciones en las que se puede inyectar un fallo con FailOn.
const (
	OpCategoryCreate = "categories.Create"
	OpCategoryDelete = "categories.Delete"
	OpItemCreate     = "items.Create"
	OpItemUpdate     = "items.Update"
	OpItemDelete     = "items.Delete"
	OpMovementCreate = "movements.Create"
	OpStats          = "report.GetStats"
	OpCommit         = "tx.Commit"
)

type storedMovement struct {
	entity.StockMovement
	seq int
}

type state struct {
	categories map[string]entity.Category
	items      map[string]entity.Item
	movements  []storedMovement
	seq        int
}

func (s *state) clone() *state {
	c := &state{
		categories: make(map[string]entity.Category, len(s.categories)),
		items:      make(map[string]entity.Item, len(s.items)),
		movements:  make([]storedMovement, len(s.movements)),
		seq:        s.seq,
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	copy(c.movements, s.movements)
	return c
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu            sync.Mutex
	st            *state
	failures      map[string]error
	txCount       int
	snapshotCount int
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		st: &state{
			categories: map[string]entity.Category{},
			items:      map[string]entity.Item{},
		},
		failures: map[string]error{},
	}
}

// FailOn hace que la operación op devuelva err (envuelto en domain.ErrStorage) hasta ClearFailures.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// TxCount número de transacciones iniciadas.
func (s *Store) TxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

// Categories instantánea de las categorías confirmadas.
func (s *Store) Categories() []entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Category, 0, len(s.st.categories))
	for _, c := range s.st.categories {
		out = append(out, c)
	}
	return out
}

// Items instantánea de los artículos confirmados.
func (s *Store) Items() []entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Item, 0, len(s.st.items))
	for _, it := range s.st.items {
		out = append(out, copyItem(it))
	}
	return out
}

// Movements instantánea de los movimientos confirmados en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, 0, len(s.st.movements))
	for _, m := range s.st.movements {
		out = append(out, m.StockMovement)
	}
	return out
}

// MovementsOf movimientos confirmados de un artículo en orden de inserción.
func (s *Store) MovementsOf(itemID string) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range s.Movements() {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out
}

// view acceso al estado: confirmado (fuera de tx) o copia de trabajo (dentro de tx).
type view struct {
	store *Store
	st    *state // nil = estado confirmado, tomando el lock en cada llamada
}

func (v view) do(op string, fn func(st *state) error) error {
	if v.st != nil {
		if err := v.store.failure(op); err != nil {
			return err
		}
		return fn(v.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if err := v.store.failure(op); err != nil {
		return err
	}
	return fn(v.store.st)
}

// failure debe llamarse con s.mu tomado.
func (s *Store) failure(op string) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
	}
	return nil
}

// CategoryRepository repositorio de categorías sobre el estado confirmado.
func (s *Store) CategoryRepository() repository.CategoryRepository { return &categoryRepo{v: view{store: s}} }

// ItemRepository repositorio de artículos sobre el estado confirmado.
func (s *Store) ItemRepository() repository.ItemRepository { return &itemRepo{v: view{store: s}} }

// StockMovementRepository repositorio de movimientos sobre el estado confirmado.
func (s *Store) StockMovementRepository() repository.StockMovementRepository {
	return &movementRepo{v: view{store: s}}
}

// ReportRepository repositorio de estadísticas sobre el estado confirmado.
func (s *Store) ReportRepository() repository.ReportRepository { return &reportRepo{v: view{store: s}} }

// Run implementa inventory.TxRunner: serializa las transacciones y publica la copia solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStorage, err)
	}
	work := s.st.clone()
	v := view{store: s, st: work}
	if err := fn(&categoryRepo{v: v}, &itemRepo{v: v}, &movementRepo{v: v}); err != nil {
		return err
	}
	if err := s.failure(OpCommit); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ReadSnapshot implementa report.SnapshotReader: fn lee el estado confirmado con el lock
// tomado, así ninguna transacción se publica entre dos lecturas.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	reportRepo repository.ReportRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotCount++
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin read-only transaction: %w", domain.ErrStorage, err)
	}
	v := view{store: s, st: s.st}
	return fn(&itemRepo{v: v}, &reportRepo{v: v})
}

// SnapshotCount número de lecturas en instantánea iniciadas.
func (s *Store) SnapshotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotCount
}

// ── categorías ───────────────────────────────────────────────────────────────

type categoryRepo struct{ v view }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.do(OpCategoryCreate, func(st *state) error {
		for _, other := range st.categories {
			if other.Name == c.Name {
				return fmt.Errorf("%w: categoría %q", domain.ErrDuplicateName, c.Name)
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do("categories.GetByID", func(st *state) error {
		if c, ok := st.categories[id]; ok {
			c.ItemCount = countItems(st, id)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do("categories.GetByName", func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				c.ItemCount = countItems(st, c.ID)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.do("categories.Update", func(st *state) error {
		stored, ok := st.categories[c.ID]
		if !ok {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, c.ID)
		}
		for _, other := range st.categories {
			if other.ID != c.ID && other.Name == c.Name {
				return fmt.Errorf("%w: categoría %q", domain.ErrDuplicateName, c.Name)
			}
		}
		stored.Name = c.Name
		stored.Description = c.Description
		st.categories[c.ID] = stored
		return nil
	})
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do("categories.List", func(st *state) error {
		for _, c := range st.categories {
			c := c
			c.ItemCount = countItems(st, c.ID)
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	return r.v.do(OpCategoryDelete, func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		delete(st.categories, id)
		for itemID, it := range st.items {
			if it.CategoryID == id {
				deleteItem(st, itemID)
			}
		}
		return nil
	})
}

// ── artículos ────────────────────────────────────────────────────────────────

type itemRepo struct{ v view }

func (r *itemRepo) Create(_ context.Context, it *entity.Item) error {
	return r.v.do(OpItemCreate, func(st *state) error {
		if err := checkItem(st, it); err != nil {
			return err
		}
		stored := copyItem(*it)
		stored.CategoryName = ""
		st.items[it.ID] = stored
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.get("items.GetByID", id)
}

func (r *itemRepo) GetForUpdate(_ context.Context, id string) (*entity.Item, error) {
	return r.get("items.GetForUpdate", id)
}

func (r *itemRepo) get(op, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(op, func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = readItem(st, it)
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do("items.GetBySKU", func(st *state) error {
		for _, it := range st.items {
			if it.SKU != nil && *it.SKU == sku {
				out = readItem(st, it)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) Update(_ context.Context, it *entity.Item) error {
	return r.v.do(OpItemUpdate, func(st *state) error {
		stored, ok := st.items[it.ID]
		if !ok {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ID)
		}
		if err := checkItem(st, it); err != nil {
			return err
		}
		next := copyItem(*it)
		next.CategoryName = ""
		next.CreatedAt = stored.CreatedAt
		st.items[it.ID] = next
		return nil
	})
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	return r.v.do(OpItemDelete, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		deleteItem(st, id)
		return nil
	})
}

func (r *itemRepo) List(_ context.Context, q repository.ItemQuery) ([]*entity.Item, int, error) {
	var (
		page  []*entity.Item
		total int
	)
	err := r.v.do("items.List", func(st *state) error {
		var all []*entity.Item
		search := strings.ToLower(q.Search)
		for _, it := range st.items {
			if q.CategoryID != "" && it.CategoryID != q.CategoryID {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(it.Name), search) &&
				!strings.Contains(strings.ToLower(it.Description), search) &&
				!strings.Contains(strings.ToLower(it.SKUValue()), search) {
				continue
			}
			all = append(all, readItem(st, it))
		}
		sortItems(all, q.Sort)
		total = len(all)
		page = paginate(all, q.Limit, q.Offset)
		return nil
	})
	return page, total, err
}

func (r *itemRepo) ListBelow(_ context.Context, threshold int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do("items.ListBelow", func(st *state) error {
		for _, it := range st.items {
			if it.Quantity < threshold {
				out = append(out, readItem(st, it))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Quantity != out[j].Quantity {
				return out[i].Quantity < out[j].Quantity
			}
			return out[i].Name < out[j].Name
		})
		return nil
	})
	return out, err
}

func (r *itemRepo) ListAll(_ context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do("items.ListAll", func(st *state) error {
		for _, it := range st.items {
			out = append(out, readItem(st, it))
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CategoryName != out[j].CategoryName {
				return out[i].CategoryName < out[j].CategoryName
			}
			return out[i].Name < out[j].Name
		})
		return nil
	})
	return out, err
}

// ── movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct{ v view }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.do(OpMovementCreate, func(st *state) error {
		if _, ok := st.items[m.ItemID]; !ok {
			return fmt.Errorf("%w: artículo %s no existe", domain.ErrInvalidReference, m.ItemID)
		}
		if m.Quantity <= 0 || !entity.IsValidMovementType(m.Type) {
			return fmt.Errorf("%w: movimiento %s %d", domain.ErrInvalidInput, m.Type, m.Quantity)
		}
		st.seq++
		stored := *m
		stored.ItemName = ""
		st.movements = append(st.movements, storedMovement{StockMovement: stored, seq: st.seq})
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, q repository.MovementQuery) ([]*entity.StockMovement, int, error) {
	var (
		page  []*entity.StockMovement
		total int
	)
	err := r.v.do("movements.List", func(st *state) error {
		var sel []storedMovement
		for _, m := range st.movements {
			if q.ItemID == "" || m.ItemID == q.ItemID {
				sel = append(sel, m)
			}
		}
		sort.Slice(sel, func(i, j int) bool {
			if !sel[i].CreatedAt.Equal(sel[j].CreatedAt) {
				return sel[i].CreatedAt.After(sel[j].CreatedAt)
			}
			return sel[i].seq > sel[j].seq
		})
		all := make([]*entity.StockMovement, 0, len(sel))
		for _, m := range sel {
			mov := m.StockMovement
			mov.ItemName = st.items[m.ItemID].Name
			all = append(all, &mov)
		}
		total = len(all)
		page = paginate(all, q.Limit, q.Offset)
		return nil
	})
	return page, total, err
}

// ── estadísticas ─────────────────────────────────────────────────────────────

type reportRepo struct{ v view }

func (r *reportRepo) GetStats(_ context.Context, threshold int) (repository.StockStats, error) {
	var stats repository.StockStats
	err := r.v.do(OpStats, func(st *state) error {
		stats.TotalValue = decimal.Zero
		stats.TotalCategories = len(st.categories)
		for _, it := range st.items {
			stats.TotalItems++
			stats.TotalValue = stats.TotalValue.Add(it.TotalValue())
			if it.Quantity < threshold {
				stats.LowStockCount++
			}
			if it.Quantity == 0 {
				stats.OutOfStockCount++
			}
		}
		return nil
	})
	return stats, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func copyItem(it entity.Item) entity.Item {
	if it.SKU != nil {
		sku := *it.SKU
		it.SKU = &sku
	}
	return it
}

func readItem(st *state, it entity.Item) *entity.Item {
	out := copyItem(it)
	out.CategoryName = st.categories[it.CategoryID].Name
	return &out
}

// checkItem reproduce los CHECK, UNIQUE y FOREIGN KEY de la tabla items.
func checkItem(st *state, it *entity.Item) error {
	if it.Quantity < 0 || it.Price.IsNegative() {
		return fmt.Errorf("%w: quantity y price no pueden ser negativos", domain.ErrInvalidInput)
	}
	if _, ok := st.categories[it.CategoryID]; !ok {
		return fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidReference, it.CategoryID)
	}
	if it.SKU != nil {
		for id, other := range st.items {
			if id != it.ID && other.SKU != nil && *other.SKU == *it.SKU {
				return fmt.Errorf("%w: %q", domain.ErrDuplicateSKU, *it.SKU)
			}
		}
	}
	return nil
}

func countItems(st *state, categoryID string) int {
	n := 0
	for _, it := range st.items {
		if it.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// deleteItem borra el artículo y sus movimientos (ON DELETE CASCADE).
func deleteItem(st *state, id string) {
	delete(st.items, id)
	kept := st.movements[:0]
	for _, m := range st.movements {
		if m.ItemID != id {
			kept = append(kept, m)
		}
	}
	st.movements = kept
}

func sortItems(items []*entity.Item, by repository.ItemSort) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch by {
		case repository.SortByQuantity:
			if a.Quantity != b.Quantity {
				return a.Quantity > b.Quantity
			}
		case repository.SortByPrice:
			if !a.Price.Equal(b.Price) {
				return a.Price.GreaterThan(b.Price)
			}
		case repository.SortByCreated:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return all[offset:end]
}
