package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"deliverydash/internal/model"
)

func statValue(v DashboardView, key string) (string, bool) {
	for _, c := range v.Stats {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

func TestViewFormatter_ReadyScenario(t *testing.T) {
	vm := NewDashboardViewModel(newFakeFetcher(staticResponses(nil)), discardLogger())
	state, err := vm.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	v := NewViewFormatter("es").Dashboard(state)
	if v.Phase != PhaseReady || v.Loading || v.Error != "" {
		t.Fatalf("view = %+v", v)
	}
	if got, ok := statValue(v, "totalOrders"); !ok || got != "120" {
		t.Errorf("totalOrders = %q, want 120", got)
	}
	if got, _ := statValue(v, "urgentOrders"); got != "3" {
		t.Errorf("urgentOrders = %q, want 3", got)
	}
	if len(v.Stats) != 7 {
		t.Errorf("len(Stats) = %d, want 7", len(v.Stats))
	}
	if v.RecentOrders == nil || len(v.RecentOrders) != 0 {
		t.Errorf("RecentOrders = %#v, want empty list", v.RecentOrders)
	}
	if len(v.Categories) != 0 {
		t.Errorf("Categories = %+v, want none", v.Categories)
	}
	if len(v.Monthly) != 1 || v.Monthly[0].Orders != 10 {
		t.Errorf("Monthly = %+v", v.Monthly)
	}
}

func TestViewFormatter_ErrorShowsNoNumbers(t *testing.T) {
	fail := map[string]error{EndpointMonthly: &FetchError{Kind: FetchStatus, Endpoint: EndpointMonthly, Status: 500}}
	vm := NewDashboardViewModel(newFakeFetcher(staticResponses(fail)), discardLogger())
	state, _ := vm.Load(context.Background())

	v := NewViewFormatter("es").Dashboard(state)
	if v.Phase != PhaseError || v.Error != LoadErrorMessage || !v.Retryable {
		t.Errorf("view = %+v", v)
	}
	if v.Stats != nil || v.RecentOrders != nil || v.Monthly != nil {
		t.Errorf("error view shows data: %+v", v)
	}
}

func TestViewFormatter_Loading(t *testing.T) {
	v := NewViewFormatter("es").Dashboard(LoadState{Phase: PhaseLoading})
	if !v.Loading || v.Stats != nil {
		t.Errorf("view = %+v", v)
	}
}

func TestViewFormatter_DecoratesRecentOrders(t *testing.T) {
	state := LoadState{
		Phase: PhaseReady,
		Recent: []model.OrderSummary{
			{ID: "#1", Status: model.StatusPending, Urgent: true, Category: "Comida"},
			{ID: "#2", Status: "lost", Category: "Farmacia"},
		},
	}
	v := NewViewFormatter("es").Dashboard(state)
	if len(v.RecentOrders) != 2 {
		t.Fatalf("len(RecentOrders) = %d", len(v.RecentOrders))
	}
	first := v.RecentOrders[0]
	if first.Badge.Label != "Pendiente" || !first.Badge.Urgent || first.Priority != "Urgente" {
		t.Errorf("first = %+v", first)
	}
	second := v.RecentOrders[1]
	if second.Badge.Label != "Desconocido" || second.Priority != "Normal" {
		t.Errorf("second = %+v", second)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	orders := []model.OrderSummary{
		{Category: "Comida"}, {Category: "Comida"}, {Category: "Farmacia"},
		{Category: "Comida"}, {Category: ""}, {Category: "Farmacia"},
	}
	got := CategoryBreakdown(orders)
	want := []CategoryShare{
		{Name: "Comida", Count: 3, Percent: 50},
		{Name: "Farmacia", Count: 2, Percent: 33},
		{Name: "Otros", Count: 1, Percent: 17},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	if got := CategoryBreakdown(nil); len(got) != 0 {
		t.Errorf("got %+v, want empty", got)
	}
}

func TestViewFormatter_Money(t *testing.T) {
	for _, tc := range []struct {
		locale string
		amount string
		want   string
	}{
		{"es", "1234567.895", "1.234.567,9"},
		{"es", "9007199254740993.01", "9.007.199.254.740.993,01"},
		{"en", "1234567.005", "1,234,567.01"},
		{"en", "1234567", "1,234,567"},
		{"en", "-1234567.5", "-1,234,567.5"},
	} {
		t.Run(tc.locale+"/"+tc.amount, func(t *testing.T) {
			got := NewViewFormatter(tc.locale).Money(decimal.RequireFromString(tc.amount))
			if got != tc.want {
				t.Errorf("Money(%s) = %q, want %q", tc.amount, got, tc.want)
			}
		})
	}
}

func TestViewFormatter_RevenueCard(t *testing.T) {
	state := LoadState{
		Phase: PhaseReady,
		Snapshot: model.DashboardSnapshot{
			TotalRevenue: decimal.RequireFromString("2500000.10"),
		},
	}
	v := NewViewFormatter("en").Dashboard(state)
	if got, _ := statValue(v, "totalRevenue"); got != "$2,500,000.1" {
		t.Errorf("totalRevenue = %q, want $2,500,000.1", got)
	}
}
