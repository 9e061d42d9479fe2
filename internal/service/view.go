package service

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/shopspring/decimal"

	"deliverydash/internal/model"
)

type StatCard struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Tone  string `json:"tone,omitempty"`
}

type RecentOrderView struct {
	model.OrderSummary
	Badge    Badge  `json:"badge"`
	Priority string `json:"priority"`
}

type CategoryShare struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// DashboardView is what a renderer needs for one frame of the dashboard.
// Stats, Monthly, RecentOrders and Categories are only filled when Ready.
type DashboardView struct {
	Phase        Phase                `json:"phase"`
	Generation   uint64               `json:"generation"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
	Retryable    bool                 `json:"retryable"`
	Stats        []StatCard           `json:"stats"`
	Monthly      []model.MonthlyPoint `json:"monthly"`
	RecentOrders []RecentOrderView    `json:"recentOrders"`
	Categories   []CategoryShare      `json:"categories"`
}

// ViewFormatter turns load states into locale-formatted views.
type ViewFormatter struct {
	printer    *message.Printer
	decimalSep string
}

func NewViewFormatter(locale string) *ViewFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	p := message.NewPrinter(tag)
	sep := p.Sprintf("%v", number.Decimal(1.5, number.MinFractionDigits(1)))
	sep = strings.TrimSuffix(strings.TrimPrefix(sep, "1"), "5")
	return &ViewFormatter{printer: p, decimalSep: sep}
}

func (f *ViewFormatter) Dashboard(s LoadState) DashboardView {
	v := DashboardView{Phase: s.Phase, Generation: s.Generation}
	switch s.Phase {
	case PhaseLoading:
		v.Loading = true
		return v
	case PhaseError:
		v.Error = s.Message
		v.Retryable = true
		return v
	}

	v.Stats = f.statCards(s.Snapshot)
	v.Monthly = append([]model.MonthlyPoint{}, s.Monthly...)
	v.RecentOrders = make([]RecentOrderView, 0, len(s.Recent))
	for _, o := range s.Recent {
		v.RecentOrders = append(v.RecentOrders, RecentOrderView{
			OrderSummary: o,
			Badge:        Present(o.Status, o.Urgent),
			Priority:     PriorityLabel(o.Urgent),
		})
	}
	v.Categories = CategoryBreakdown(s.Recent)
	return v
}

func (f *ViewFormatter) Int(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Money renders d rounded to cents with the locale's grouping and decimal
// separator. Trailing zero cents are dropped.
func (f *ViewFormatter) Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	whole := d.IntPart()
	cents := d.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()

	out := sign + f.printer.Sprintf("%d", whole)
	if frac := strings.TrimRight(fmt.Sprintf("%02d", cents), "0"); frac != "" {
		out += f.decimalSep + frac
	}
	return out
}

func (f *ViewFormatter) statCards(s model.DashboardSnapshot) []StatCard {
	revenue := "$" + f.Money(s.TotalRevenue)
	return []StatCard{
		{Key: "totalOrders", Title: "Total Pedidos", Value: f.Int(s.TotalOrders)},
		{Key: "pendingOrders", Title: "Pendientes", Value: f.Int(s.PendingOrders), Tone: "warning"},
		{Key: "deliveredOrders", Title: "Entregados", Value: f.Int(s.DeliveredOrders), Tone: "success"},
		{Key: "urgentOrders", Title: "Urgentes", Value: f.Int(s.UrgentOrders), Tone: "danger"},
		{Key: "totalClients", Title: "Clientes Activos", Value: f.Int(s.TotalClients)},
		{Key: "activeDrivers", Title: "Choferes Activos", Value: f.Int(s.ActiveDrivers)},
		{Key: "totalRevenue", Title: "Ingresos", Value: revenue},
	}
}

// CategoryBreakdown counts orders per category, largest first. Percentages
// are rounded to the nearest integer.
func CategoryBreakdown(orders []model.OrderSummary) []CategoryShare {
	counts := make(map[string]int)
	for _, o := range orders {
		name := o.Category
		if name == "" {
			name = "Otros"
		}
		counts[name]++
	}

	shares := make([]CategoryShare, 0, len(counts))
	for name, n := range counts {
		shares = append(shares, CategoryShare{
			Name:    name,
			Count:   n,
			Percent: (n*100 + len(orders)/2) / len(orders),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}
