package threadpool

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

// config holds Pool construction options, built with a
// defaultConfig()-then-apply-options()-then-validate() pattern.
type config struct {
	numWorkers int
	logger     *logrus.Logger
}

// Option configures a Pool at construction time.
type Option func(*config)

func defaultConfig() config {
	return config{
		numWorkers: runtime.GOMAXPROCS(0),
		logger:     logrus.StandardLogger(),
	}
}

// WithWorkers sets the fixed worker count W. A count of 0 normalizes to 1
// rather than producing a pool with no workers.
func WithWorkers(n int) Option {
	return func(c *config) { c.numWorkers = n }
}

// WithLogger injects a *logrus.Logger for the pool's diagnostic logging
// (worker start/exit, and worker dequeue failures such as hazard-domain
// exhaustion). Panics recovered from tasks are not logged; they surface only
// through the task's Future.
// Logging never sits on the enqueue/dequeue fast path.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func (c *config) normalize() {
	if c.numWorkers <= 0 {
		c.numWorkers = 1
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
}

func (c *config) validate() error {
	if c.numWorkers < 0 {
		return errInvalidConfig("numWorkers must be >= 0")
	}
	return nil
}
