package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

var (
	OrdersGeneratedTotal    = prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_generated_total", Help: "Synthetic orders generated"})
	OrdersRejectedTotal     = prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_rejected_total", Help: "Orders rejected before matching"})
	TradesExecutedTotal     = prometheus.NewCounter(prometheus.CounterOpts{Name: "trades_executed_total", Help: "Trades executed by the matching engine"})
	SnapshotBroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "snapshot_broadcasts_total", Help: "State snapshots broadcast to observers"})
	ConnectedClients        = prometheus.NewGauge(prometheus.GaugeOpts{Name: "ws_connected_clients", Help: "Currently connected WebSocket observers"})
	DroppedClientsTotal     = prometheus.NewCounter(prometheus.CounterOpts{Name: "ws_dropped_clients_total", Help: "Observers dropped on send failure or full buffer"})
)

// Init registers all collectors on a fresh registry.
func Init(log *logger.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		OrdersGeneratedTotal, OrdersRejectedTotal, TradesExecutedTotal,
		SnapshotBroadcastsTotal, ConnectedClients, DroppedClientsTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	log.Info("prometheus metrics initialized")
	return reg
}

// Handler returns the HTTP handler exposing the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
