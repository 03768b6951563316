package app

import (
	"strings"

	"github.com/wildfireconsulting/quantix/internal/stock"
	"github.com/wildfireconsulting/quantix/pkg/metrics"
	"go.uber.org/zap"
)

// subscribeEvents hooks the mutation topic to metrics and low-stock alerts.
// Subscribers run async so a slow metrics flush never delays a sale.
func (a *Application) subscribeEvents() {
	err := a.bus.SubscribeAsync(stock.TopicMutated, func(res stock.ApplyResult) {
		metrics.IncrCounter("stock_"+strings.ToLower(string(res.Action)), 1)
		if res.LowStock {
			zap.L().Warn("stock below minimum",
				zap.String("product_id", res.ProductID),
				zap.String("product_name", res.ProductName),
				zap.Int("quantity", res.NewQuantity))
		}
	}, false)
	if err != nil {
		zap.S().Errorf("event subscription failed: %v", err)
	}
}
