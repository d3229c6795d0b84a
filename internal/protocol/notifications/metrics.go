package notifications

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-notif/pkg/types"
)

const metricsSubsystem = "notifications"

// Metrics 通知处理器的 Prometheus 指标，按协议区分
type Metrics struct {
	openRequests       *prometheus.CounterVec
	duplicateInbound   *prometheus.CounterVec
	unexpectedDecision *prometheus.CounterVec
	staleDecisions     *prometheus.CounterVec
	accepted           *prometheus.CounterVec
	refused            *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	notificationBytes  *prometheus.CounterVec
	closed             *prometheus.CounterVec
}

// NewMetrics 创建并注册指标
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	newCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		}, []string{"protocol"})
	}

	m := &Metrics{
		openRequests:       newCounter("open_requests_total", "Total number of OpenRequest events emitted."),
		duplicateInbound:   newCounter("duplicate_substreams_total", "Total number of inbound substreams discarded because one was already held."),
		unexpectedDecision: newCounter("unexpected_decisions_total", "Total number of Accept/Refuse received without a pending OpenRequest."),
		staleDecisions:     newCounter("stale_decisions_total", "Total number of Accept/Refuse superseded by a later OpenRequest."),
		accepted:           newCounter("accepted_total", "Total number of Accept decisions applied."),
		refused:            newCounter("refused_total", "Total number of Refuse decisions applied."),
		notifications:      newCounter("received_total", "Total number of notifications received."),
		notificationBytes:  newCounter("received_bytes_total", "Total size of notifications received in bytes."),
		closed:             newCounter("closed_total", "Total number of substreams closed by the remote."),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.openRequests,
		m.duplicateInbound,
		m.unexpectedDecision,
		m.staleDecisions,
		m.accepted,
		m.refused,
		m.notifications,
		m.notificationBytes,
		m.closed,
	}
}

// forProtocol 返回绑定协议标签的计数器，m 为 nil 时返回 nil
func (m *Metrics) forProtocol(p types.ProtocolID) *protocolMetrics {
	if m == nil {
		return nil
	}
	label := p.String()
	return &protocolMetrics{
		openRequests:       m.openRequests.WithLabelValues(label),
		duplicateInbound:   m.duplicateInbound.WithLabelValues(label),
		unexpectedDecision: m.unexpectedDecision.WithLabelValues(label),
		staleDecisions:     m.staleDecisions.WithLabelValues(label),
		accepted:           m.accepted.WithLabelValues(label),
		refused:            m.refused.WithLabelValues(label),
		notifications:      m.notifications.WithLabelValues(label),
		notificationBytes:  m.notificationBytes.WithLabelValues(label),
		closed:             m.closed.WithLabelValues(label),
	}
}

// protocolMetrics 单个协议的计数器，所有方法允许 nil 接收者
type protocolMetrics struct {
	openRequests       prometheus.Counter
	duplicateInbound   prometheus.Counter
	unexpectedDecision prometheus.Counter
	staleDecisions     prometheus.Counter
	accepted           prometheus.Counter
	refused            prometheus.Counter
	notifications      prometheus.Counter
	notificationBytes  prometheus.Counter
	closed             prometheus.Counter
}

func (pm *protocolMetrics) inc(pick func(*protocolMetrics) prometheus.Counter) {
	if pm == nil {
		return
	}
	pick(pm).Inc()
}

func (pm *protocolMetrics) openRequest() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.openRequests })
}

func (pm *protocolMetrics) duplicate() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.duplicateInbound })
}

func (pm *protocolMetrics) unexpected() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.unexpectedDecision })
}

func (pm *protocolMetrics) stale() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.staleDecisions })
}

func (pm *protocolMetrics) accept() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.accepted })
}

func (pm *protocolMetrics) refuse() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.refused })
}

func (pm *protocolMetrics) remoteClosed() {
	pm.inc(func(p *protocolMetrics) prometheus.Counter { return p.closed })
}

func (pm *protocolMetrics) notification(size int) {
	if pm == nil {
		return
	}
	pm.notifications.Inc()
	pm.notificationBytes.Add(float64(size))
}
