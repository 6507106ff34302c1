package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "cart_mutations_total",
			Help:      "Cart operations applied, by operation",
		},
		[]string{"op"},
	)

	ordersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "orders_placed_total",
			Help:      "Orders placed through checkout",
		},
	)

	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Name:      "order_grand_total",
			Help:      "Grand total of placed orders including tax",
			Buckets:   []float64{10, 25, 50, 100, 200, 400, 800, 1600},
		},
	)

	orderItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Name:      "order_item_count",
			Help:      "Item count of placed orders",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)
)

// PromRecorder implements usecase.Recorder on the default registry.
type PromRecorder struct{}

func (PromRecorder) CartMutation(op string) {
	cartMutations.WithLabelValues(op).Inc()
}

func (PromRecorder) OrderPlaced(total float64, items int) {
	ordersPlaced.Inc()
	orderValue.Observe(total)
	orderItems.Observe(float64(items))
}
