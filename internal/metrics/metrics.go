package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ojjj13/kltech-std-parser/internal/frame"
	"github.com/ojjj13/kltech-std-parser/internal/stream"
)

// Decoder counts what a stream reader produced.
type Decoder struct {
	Outcomes   *prometheus.CounterVec // labels: kind, record
	Bytes      prometheus.Counter
	Heuristic  prometheus.Counter
	Incomplete prometheus.Counter
}

// NewDecoder registers the decoder metrics on reg.
func NewDecoder(reg prometheus.Registerer) *Decoder {
	m := &Decoder{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stdparser_outcomes_total",
			Help: "Records processed by outcome kind and record mnemonic.",
		}, []string{"kind", "record"}),
		Bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stdparser_bytes_total",
			Help: "Bytes consumed including record headers.",
		}),
		Heuristic: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stdparser_ptr_heuristic_total",
			Help: "PTRs reconstructed with the tail heuristic.",
		}),
		Incomplete: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stdparser_incomplete_streams_total",
			Help: "Streams that ended inside a record payload.",
		}),
	}
	reg.MustRegister(m.Outcomes, m.Bytes, m.Heuristic, m.Incomplete)
	return m
}

// Observe is a stream.WithObserver callback.
func (m *Decoder) Observe(out stream.Outcome) {
	m.Outcomes.WithLabelValues(out.Kind.String(), out.Header.Kind()).Inc()
	m.Bytes.Add(float64(frame.HeaderSize + int(out.Header.Length)))
	if out.Kind == stream.KindRecord && out.Record.Heuristic() {
		m.Heuristic.Inc()
	}
}

// WriteTextfile dumps every metric in g to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
