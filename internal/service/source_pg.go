package service

import (
	"context"
	"database/sql"
	"fmt"

	"deliverydash/internal/model"
)

// PgOrderSource reads assignments straight from the order system's pedidos
// table. The table belongs to that system; this source never writes to it.
type PgOrderSource struct {
	db       *sql.DB
	driverID string
	state    string
}

func NewPgOrderSource(db *sql.DB, driverID, state string) *PgOrderSource {
	return &PgOrderSource{db: db, driverID: driverID, state: state}
}

func (s *PgOrderSource) ListAssigned(ctx context.Context) ([]model.DriverOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idoped, fecped::text, notped, idclie, hora::text, latitud, longitud
		FROM pedidos
		WHERE estped = $1 AND idven = $2
		ORDER BY fecped ASC, hora ASC NULLS LAST
	`, s.state, s.driverID)
	if err != nil {
		return nil, fmt.Errorf("query pedidos: %w", err)
	}
	defer rows.Close()

	var orders []model.DriverOrder
	for rows.Next() {
		var (
			r        pedidoRecord
			notes    sql.NullString
			hora     sql.NullString
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.Date, &notes, &r.ClientID, &hora, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		if notes.Valid {
			r.Notes = &notes.String
		}
		if hora.Valid {
			r.Time = &hora.String
		}
		if lat.Valid && lon.Valid {
			r.Latitude, r.Longitude = &lat.Float64, &lon.Float64
		}
		orders = append(orders, r.driverOrder())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}
