package swarm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-notif/pkg/types"
)

const metricsSubsystem = "swarm"

// Metrics 连接层的 Prometheus 指标
type Metrics struct {
	connsOpened         *prometheus.CounterVec
	connsClosed         *prometheus.CounterVec
	activeConns         prometheus.Gauge
	negotiationFailures prometheus.Counter
	inboundSubstreams   prometheus.Counter
}

// NewMetrics 创建并注册指标
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		connsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_opened_total",
			Help:      "Total number of connections opened.",
		}, []string{"direction"}),
		connsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_closed_total",
			Help:      "Total number of connections closed by reason.",
		}, []string{"reason"}),
		activeConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_active",
			Help:      "Number of currently open connections.",
		}),
		negotiationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "inbound_negotiation_failures_total",
			Help:      "Total number of inbound substreams that failed negotiation or upgrade.",
		}),
		inboundSubstreams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "inbound_substreams_total",
			Help:      "Total number of inbound substreams delivered to handlers.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.connsOpened, m.connsClosed, m.activeConns, m.negotiationFailures, m.inboundSubstreams,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) connOpened(dir types.Direction) {
	if m == nil {
		return
	}
	m.connsOpened.WithLabelValues(dir.String()).Inc()
	m.activeConns.Inc()
}

func (m *Metrics) connClosed(reason string) {
	if m == nil {
		return
	}
	m.connsClosed.WithLabelValues(reason).Inc()
	m.activeConns.Dec()
}

func (m *Metrics) negotiationFailed() {
	if m == nil {
		return
	}
	m.negotiationFailures.Inc()
}

func (m *Metrics) substreamDelivered() {
	if m == nil {
		return
	}
	m.inboundSubstreams.Inc()
}
