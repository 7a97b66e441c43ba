package stdparser

import (
	"github.com/sirupsen/logrus"

	"github.com/ojjj13/kltech-std-parser/internal/metrics"
	"github.com/ojjj13/kltech-std-parser/internal/stream"
)

// Options configures Decode.
type Options struct {
	Logger logrus.FieldLogger
	// Metrics, when set, counts every outcome.
	Metrics *metrics.Decoder
	// Coords collects die coordinates from datalog text records.
	Coords    bool
	MaxCoords int
}

func (opts Options) streamOptions() []stream.Option {
	var out []stream.Option
	if opts.Logger != nil {
		out = append(out, stream.WithLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		out = append(out, stream.WithObserver(opts.Metrics.Observe))
	}
	return out
}
