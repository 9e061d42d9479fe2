package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PedidosColumns are the columns the order sources read. The table is
// owned by the order system and is never created or migrated here.
var PedidosColumns = []string{"idoped", "fecped", "notped", "idclie", "idven", "estped", "hora", "latitud", "longitud"}

// CheckPedidos fails when the pedidos table is missing any column the
// order sources depend on.
func CheckPedidos(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`, "pedidos")
	if err != nil {
		return fmt.Errorf("inspect pedidos: %w", err)
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		have[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration failed: %w", err)
	}

	var missing []string
	for _, c := range PedidosColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("pedidos table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
