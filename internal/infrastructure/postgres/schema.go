package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema crea las tablas e índices si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return mapError("ensure schema", err)
	}
	return nil
}

// Schema devuelve el DDL aplicado por EnsureSchema.
func Schema() string { return schemaSQL }

// Truncate vacía todas las tablas (tests de integración y seed --reset).
func Truncate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, `TRUNCATE stock_movements, items, categories`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
