/*
Copyright © 2025 Alex Bedo <alex98hun@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package check

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nerdmagic/mountmon/alert"
	"github.com/nerdmagic/mountmon/config"
)

// mountChecker is the slice of Checker the scheduler needs.
type mountChecker interface {
	Check(spec config.MountSpec, remount bool) Result
}

// Scheduler drives the periodic check cycle over all configured
// mountpoints, strictly sequentially: a slow check on one mountpoint
// delays every mountpoint after it in that cycle.
type Scheduler struct {
	cfg     *config.Config
	checker mountChecker
	sink    alert.Sink
	log     *zerolog.Logger
}

// NewScheduler creates a scheduler for the given configuration.
func NewScheduler(cfg *config.Config, checker mountChecker, sink alert.Sink, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		checker: checker,
		sink:    sink,
		log:     logger,
	}
}

// Run executes check cycles until ctx is cancelled. Cancellation is
// cooperative: it is honored between mountpoints and during the interval
// sleep, never in the middle of a check.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.cfg.IntervalDuration()
	s.log.Info().Dur("interval", interval).Int("mountpoints", len(s.cfg.Mountpoints)).Msg("Mountpoint monitor started")

	start := time.Now()
	for {
		for _, spec := range s.cfg.Mountpoints {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("Monitor shutting down")
				return
			default:
			}
			s.runCheck(spec)
		}

		// Sleep to the next tick of a fixed grid anchored at loop start,
		// so slow cycles do not drift the cadence.
		sleep := interval - time.Since(start)%interval
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			s.log.Info().Msg("Monitor shutting down")
			return
		}
	}
}

func (s *Scheduler) runCheck(spec config.MountSpec) {
	began := time.Now()
	result := s.checker.Check(spec, s.cfg.Remount)
	elapsed := time.Since(began)

	s.log.Debug().
		Str("mountpoint", spec.Path).
		Dur("elapsed", elapsed).
		Int("code", int(result)).
		Str("status", result.String()).
		Msg("Check completed")

	if result == OK || !s.cfg.Alerting {
		return
	}

	key := spec.AlertKey
	if key == "" {
		key = s.cfg.AlertTriggerKey
	}
	if err := s.sink.Send(s.cfg.Hostname, key, int(result)); err != nil {
		s.log.Error().Err(err).Str("key", key).Int("value", int(result)).Msg("Failed to send alert")
		return
	}
	s.log.Debug().Str("key", key).Int("value", int(result)).Msg("Sent alert")
}
