// Package metrics Prometheus指标
//
// 指标注册在独立的Registry上(而不是全局DefaultRegisterer),
// 测试可以反复调用Init而不会触发重复注册panic。
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once     sync.Once
	registry *prometheus.Registry

	// ========== HTTP ==========

	// HTTPRequestsTotal 请求总数(method, path, status)
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration 请求耗时(method, path)
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 业务 ==========

	// OrdersPlacedTotal 下单成功数
	OrdersPlacedTotal prometheus.Counter
	// OrdersFailedTotal 下单失败数(reason: auth_required|empty_cart|invalid|storage)
	OrdersFailedTotal *prometheus.CounterVec
	// OrderAmount 订单金额分布(美元)
	OrderAmount prometheus.Histogram
	// OrderStatusChanges 后台改状态(to)
	OrderStatusChanges *prometheus.CounterVec
	// CartMutationsTotal 购物车操作(op: add|set|remove|clear)
	CartMutationsTotal *prometheus.CounterVec
	// NoticesTotal 用户通知(severity)
	NoticesTotal *prometheus.CounterVec
	// SessionEventsTotal 会话事件(event: login|login_failed|register|logout)
	SessionEventsTotal *prometheus.CounterVec

	// ========== 快照镜像 ==========

	// SnapshotWritesTotal 镜像写入(collection, result: success|failure|rejected)
	SnapshotWritesTotal *prometheus.CounterVec
	SnapshotWriteDuration prometheus.Histogram
	// SnapshotQueueDepth 排队中的写入任务
	SnapshotQueueDepth prometheus.Gauge
	// SnapshotLoadsTotal 加载(collection, source: store|seed)
	SnapshotLoadsTotal *prometheus.CounterVec

	// ========== 容错 ==========

	// CircuitBreakerState 熔断器状态(0=closed,1=open,2=half_open)
	CircuitBreakerState *prometheus.GaugeVec
	// SagaExecutionsTotal 事务编排(saga, result: success|compensated|failed)
	SagaExecutionsTotal *prometheus.CounterVec
	SagaCompensationsTotal prometheus.Counter

	// ========== 消息 ==========

	MessagesPublishedTotal *prometheus.CounterVec
)

// Init 初始化全部指标(幂等)
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		f := factory{registry}

		HTTPRequestsTotal = f.counterVec("http_requests_total", "HTTP请求总数", "method", "path", "status")
		HTTPRequestDuration = f.histogramVec("http_request_duration_seconds", "HTTP请求耗时（秒）",
			[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}, "method", "path")
		HTTPRequestsInProgress = f.gauge("http_requests_in_progress", "正在处理的HTTP请求数")

		OrdersPlacedTotal = f.counter("orders_placed_total", "下单成功总数")
		OrdersFailedTotal = f.counterVec("orders_failed_total", "下单失败总数", "reason")
		OrderAmount = f.histogram("order_amount_dollars", "订单金额分布",
			[]float64{10, 25, 50, 100, 250, 500})
		OrderStatusChanges = f.counterVec("order_status_changes_total", "订单状态修改次数", "to")
		CartMutationsTotal = f.counterVec("cart_mutations_total", "购物车操作次数", "op")
		NoticesTotal = f.counterVec("notices_total", "用户通知数", "severity")
		SessionEventsTotal = f.counterVec("session_events_total", "会话事件数", "event")

		SnapshotWritesTotal = f.counterVec("snapshot_writes_total", "快照写入次数", "collection", "result")
		SnapshotWriteDuration = f.histogram("snapshot_write_duration_seconds", "快照写入耗时（秒）",
			[]float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1})
		SnapshotQueueDepth = f.gauge("snapshot_queue_depth", "排队中的快照写入任务")
		SnapshotLoadsTotal = f.counterVec("snapshot_loads_total", "快照加载次数", "collection", "source")

		CircuitBreakerState = f.gaugeVec("circuit_breaker_state", "熔断器状态（0=closed, 1=open, 2=half_open）", "name")
		SagaExecutionsTotal = f.counterVec("saga_executions_total", "Saga执行总数", "saga", "result")
		SagaCompensationsTotal = f.counter("saga_compensations_total", "Saga补偿步骤执行总数")

		MessagesPublishedTotal = f.counterVec("messages_published_total", "消息发布总数", "exchange", "routing_key")
	})
}

// Registry 返回指标注册表(会先Init)
func Registry() *prometheus.Registry {
	Init()
	return registry
}

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

type factory struct {
	reg prometheus.Registerer
}

func (f factory) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storefront", Name: name, Help: help})
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storefront", Name: name, Help: help}, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storefront", Name: name, Help: help})
	f.reg.MustRegister(g)
	return g
}

func (f factory) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "storefront", Name: name, Help: help}, labels)
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogram(name, help string, buckets []float64) prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storefront", Name: name, Help: help, Buckets: buckets})
	f.reg.MustRegister(h)
	return h
}

func (f factory) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "storefront", Name: name, Help: help, Buckets: buckets}, labels)
	f.reg.MustRegister(h)
	return h
}
