package generator

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"
)

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers sets the number of goroutines evaluating rows. Values below 1
// select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		g.workers = n
	}
}

// WithLogger sets the logger used for compile and generation events.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
