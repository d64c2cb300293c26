package cache

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger is implemented by Cache.
type Purger interface {
	PurgeExpired() int
}

// StartJanitor schedules PurgeExpired on the given cron spec (for example
// "@every 1m") and starts the scheduler. Stop the returned cron on shutdown.
func StartJanitor(p Purger, spec string, logger logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := p.PurgeExpired(); n > 0 {
			logger.WithField("purged", n).Debug("expired cache entries removed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache purge schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
