package pipeline

import (
	"github.com/viant/innerfix/logger"
)

type Option func(*Runner)

// WithWorkers sets the number of units processed concurrently
func WithWorkers(workers int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithCacheSize sets how many decoded classes are kept between the two phases
func WithCacheSize(size int) Option {
	return func(r *Runner) {
		r.cacheSize = size
	}
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithStages sets stages applied in order to every unit
func WithStages(stages ...Stage) Option {
	return func(r *Runner) {
		r.stages = stages
	}
}
