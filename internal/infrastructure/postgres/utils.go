package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repositorios aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Nombres de constraints del esquema usados para distinguir violaciones UNIQUE.
const (
	constraintCategoryName = "categories_name_key"
	constraintItemSKU      = "items_sku_key"
)

// conn envuelve el Querier con el timeout por operación.
type conn struct {
	q       Querier
	timeout time.Duration
}

func (c conn) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, c.timeout)
}

// mapError traduce errores del driver a errores de dominio. op identifica la operación en el detalle.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case constraintCategoryName:
				return fmt.Errorf("%w: %s", domain.ErrDuplicateName, pgErr.Detail)
			case constraintItemSKU:
				return fmt.Errorf("%w: %s", domain.ErrDuplicateSKU, pgErr.Detail)
			}
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", domain.ErrInvalidReference, pgErr.Detail)
		case "23514", "22003", "22001": // check_violation, numeric_value_out_of_range, string_data_right_truncation
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
