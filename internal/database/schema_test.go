package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCheckPedidos(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range PedidosColumns {
		rows.AddRow(strings.ToUpper(c))
	}
	rows.AddRow("totped")
	mock.ExpectQuery("SELECT column_name FROM information_schema.columns").
		WithArgs("pedidos").
		WillReturnRows(rows)

	if err := CheckPedidos(context.Background(), db); err != nil {
		t.Fatalf("CheckPedidos: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCheckPedidos_MissingColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT column_name FROM information_schema.columns").
		WithArgs("pedidos").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("idoped").AddRow("estped"))

	err = CheckPedidos(context.Background(), db)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "idven") || strings.Contains(err.Error(), "idoped,") {
		t.Errorf("err = %v", err)
	}
}
