package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.AdminGET("/dashboard", getDashboard)
	webserver.AdminGET("/dashboard/metrics/:name", getDashboardMetric)
}

type dashboardView struct {
	Products      int64          `json:"products"`
	Orders        int64          `json:"orders"`
	PendingOrders int64          `json:"pending_orders"`
	Customers     int64          `json:"customers"`
	Revenue       float64        `json:"revenue"`
	OrderMean     float64        `json:"order_mean"`
	OrderMedian   float64        `json:"order_median"`
	OrderP90      float64        `json:"order_p90"`
	RecentOrders  []domain.Order `json:"recent_orders"`
	CpuPercent    float64        `json:"cpu_percent"`
	MemPercent    float64        `json:"mem_percent"`
}

func getDashboard(c echo.Context) error {
	db := GetDB(c)
	ctx := c.Request().Context()
	var view dashboardView

	db.WithContext(ctx).Model(&domain.Product{}).Count(&view.Products)
	db.WithContext(ctx).Model(&domain.Order{}).Count(&view.Orders)
	db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusPending).Count(&view.PendingOrders)
	db.WithContext(ctx).Model(&domain.Profile{}).
		Where("is_admin = ?", false).Count(&view.Customers)

	orders := store.NewGormOrderRepository(db)
	totals, err := orders.Totals(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order totals", err.Error())
	}
	if len(totals) > 0 {
		view.Revenue, _ = stats.Sum(totals)
		view.OrderMean, _ = stats.Mean(totals)
		view.OrderMedian, _ = stats.Median(totals)
		view.OrderP90, _ = stats.Percentile(totals, 90)
	}

	recent, _, err := orders.List(ctx, store.OrderFilter{Page: 1, PageSize: 5})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query recent orders", err.Error())
	}
	view.RecentOrders = recent

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		view.CpuPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		view.MemPercent = vm.UsedPercent
	}
	return ok(c, view)
}

var dashboardMetrics = map[string]string{
	"order_placed":     metrics.StoreOrderPlaced,
	"order_failed":     metrics.StoreOrderFailed,
	"cart_add":         metrics.StoreCartAdd,
	"order_status_set": metrics.StoreOrderStatusSet,
	"system_cpu":       metrics.SystemCpuuse,
	"system_mem":       metrics.SystemMemuse,
	"process_cpu":      metrics.ToughstoreCpuuse,
	"process_mem":      metrics.ToughstoreMemuse,
}

type metricPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// getDashboardMetric serves the last 24h of a named series for the
// dashboard charts.
func getDashboardMetric(c echo.Context) error {
	name, okName := dashboardMetrics[c.Param("name")]
	if !okName {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown metric", nil)
	}
	end := time.Now().Unix()
	start := end - 86400
	points, err := metrics.Select(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	out := make([]metricPoint, 0, len(points))
	for _, p := range points {
		out = append(out, metricPoint{Timestamp: p.Timestamp, Value: p.Value})
	}
	return ok(c, out)
}
