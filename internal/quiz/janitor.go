package quiz

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor evicts sessions that have seen no activity for longer than ttl.
// Browser tabs close without a goodbye, so the sweep is what bounds memory.
type Janitor struct {
	controller *Controller
	ttl        time.Duration
	logger     *zap.Logger
	schedule   string
}

func NewJanitor(controller *Controller, ttl time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		controller: controller,
		ttl:        ttl,
		logger:     logger,
		schedule:   "* * * * *",
	}
}

// Start sweeps on the janitor's schedule, once a minute by default, until
// ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() {
		if swept := j.controller.SweepIdle(j.ttl); swept > 0 {
			j.logger.Info("swept idle sessions",
				zap.Int("swept", swept),
				zap.Int("remaining", j.controller.Count()),
			)
		}
	})
	if err != nil {
		j.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	j.logger.Info("session janitor started", zap.Duration("ttl", j.ttl))

	<-ctx.Done()

	c.Stop()
	j.logger.Info("session janitor stopped")
}
