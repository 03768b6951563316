package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

type dashboardSummary struct {
	Items            int             `json:"items"`
	Pieces           int             `json:"pieces"`
	StockValue       decimal.Decimal `json:"stock_value"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
	LowStock         []lowStockItem  `json:"low_stock"`
}

type lowStockItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"min_stock"`
}

type actionStats struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

func registerDashboardRoutes() {
	webserver.ApiGET("/inventory/dashboard", getDashboard)
	webserver.ApiGET("/inventory/dashboard/activity", getActivity)
}

func getDashboard(c echo.Context) error {
	rows := GetApp(c).Store().All()

	summary := dashboardSummary{
		StockValue:       decimal.Zero,
		PotentialRevenue: decimal.Zero,
		LowStock:         []lowStockItem{},
	}
	for _, r := range rows {
		qty := decimal.NewFromInt(int64(r.Quantity))
		summary.Items++
		summary.Pieces += r.Quantity
		summary.StockValue = summary.StockValue.Add(r.CostPrice.Mul(qty))
		summary.PotentialRevenue = summary.PotentialRevenue.Add(r.SellPrice.Mul(qty))
		if r.LowStock() {
			summary.LowStock = append(summary.LowStock, lowStockItem{
				ProductID:   r.ProductID,
				ProductName: r.ProductName,
				Quantity:    r.Quantity,
				MinStock:    r.MinStock,
			})
		}
	}
	summary.PotentialProfit = summary.PotentialRevenue.Sub(summary.StockValue)
	return ok(c, summary)
}

// getActivity aggregates ledger movement per action over a trailing window,
// default 30 days.
func getActivity(c echo.Context) error {
	days := cast.ToInt(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	entries, err := GetApp(c).Ledger().ReadAll()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read history", err.Error())
	}

	amounts := map[domain.Action][]float64{}
	for _, e := range entries {
		if e.Timestamp.Before(since) {
			continue
		}
		amounts[e.Action] = append(amounts[e.Action], float64(e.Amount))
	}

	result := map[string]actionStats{}
	for _, action := range []domain.Action{domain.ActionAdd, domain.ActionRemove, domain.ActionSale} {
		data := amounts[action]
		s := actionStats{Count: len(data)}
		if len(data) > 0 {
			s.Total, _ = stats.Sum(data)
			s.Mean, _ = stats.Mean(data)
			s.Median, _ = stats.Median(data)
			s.StdDev, _ = stats.StandardDeviation(data)
		}
		result[string(action)] = s
	}
	return ok(c, map[string]interface{}{"days": days, "actions": result})
}
