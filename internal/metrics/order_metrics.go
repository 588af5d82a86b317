package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики обработки заказов.
type OrderMetrics struct {
	// Счётчики заказов
	ordersStarted   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersRejected  prometheus.Counter
	ordersFailed    prometheus.Counter

	// Выручка и проданные единицы
	revenue   prometheus.Counter
	unitsSold *prometheus.CounterVec

	// Причины отклонения по строкам заказа
	lineRejections *prometheus.CounterVec

	// Гистограмма времени обработки заказа
	orderDuration prometheus.Histogram
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_started_total",
			Help: "Total number of orders submitted for processing",
		}),
		ordersCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_completed_total",
			Help: "Total number of orders completed successfully",
		}),
		ordersRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Total number of orders rejected during validation",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_failed_total",
			Help: "Total number of orders failed after validation passed",
		}),
		revenue: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_revenue_total",
			Help: "Total revenue from completed orders",
		}),
		unitsSold: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_units_sold_total",
			Help: "Total units sold per product",
		}, []string{"product"}),
		lineRejections: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_line_rejections_total",
			Help: "Total rejected order lines per reason",
		}, []string{"reason"}),
		orderDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_duration_seconds",
			Help:    "Duration of order processing in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderStarted увеличивает счётчик принятых заказов.
func (m *OrderMetrics) RecordOrderStarted() {
	m.ordersStarted.Inc()
}

// RecordOrderCompleted фиксирует успешный заказ и его сумму.
func (m *OrderMetrics) RecordOrderCompleted(total float64) {
	m.ordersCompleted.Inc()
	m.revenue.Add(total)
}

// RecordOrderRejected увеличивает счётчик отклонённых заказов.
func (m *OrderMetrics) RecordOrderRejected() {
	m.ordersRejected.Inc()
}

// RecordOrderFailed увеличивает счётчик заказов, упавших после валидации.
func (m *OrderMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordUnitsSold фиксирует количество проданных единиц товара.
func (m *OrderMetrics) RecordUnitsSold(product string, qty int) {
	m.unitsSold.WithLabelValues(product).Add(float64(qty))
}

// RecordLineRejection фиксирует причину отклонения строки заказа.
func (m *OrderMetrics) RecordLineRejection(reason string) {
	m.lineRejections.WithLabelValues(reason).Inc()
}

// RecordOrderDuration записывает время обработки заказа.
func (m *OrderMetrics) RecordOrderDuration(duration time.Duration) {
	m.orderDuration.Observe(duration.Seconds())
}
