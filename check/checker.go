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
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/nerdmagic/mountmon/config"
	"github.com/nerdmagic/mountmon/utils"
)

// settleDelay is how long a freshly (re)mounted filesystem is left alone
// before the check proceeds.
const settleDelay = 2 * time.Second

// Checker runs the health-check state machine for a single mountpoint:
// mount verification, staleness detection, optional remount recovery and
// the write-liveness check.
type Checker struct {
	runner CommandRunner
	log    *zerolog.Logger
	settle time.Duration

	// filesystem probes, replaced in tests
	isMounted func(string) (bool, error)
	listDir   func(string) error
	now       func() time.Time
}

// NewChecker creates a Checker using the given runner for recovery actions.
func NewChecker(runner CommandRunner, logger *zerolog.Logger) *Checker {
	return &Checker{
		runner:    runner,
		log:       logger,
		settle:    settleDelay,
		isMounted: utils.IsMountPoint,
		listDir:   listDir,
		now:       time.Now,
	}
}

func listDir(dir string) error {
	_, err := os.ReadDir(dir)
	return err
}

// Check runs the full state machine for spec and maps every failure to a
// Result code. Errors never escape: filesystem and subprocess failures are
// converted to the corresponding code locally. After a successful recovery
// action the prior step is not re-verified, which keeps the state machine
// linear and bounds a check to two settle delays plus command time.
func (c *Checker) Check(spec config.MountSpec, remount bool) Result {
	mounted, err := c.isMounted(spec.Path)
	if err != nil {
		c.log.Error().Err(err).Str("mountpoint", spec.Path).Msg("Failed to query mount state")
		mounted = false
	}

	if !mounted {
		if !remount {
			c.log.Error().Str("mountpoint", spec.Path).Msg("Mountpoint is not mounted")
			return NotMounted
		}
		c.log.Warn().Str("mountpoint", spec.Path).Msg("Mountpoint found unmounted, attempting to mount")
		if !c.runner.Mount(spec.Path) {
			c.log.Error().Str("mountpoint", spec.Path).Msg("Mountpoint could not be mounted")
			return NotMounted
		}
		time.Sleep(c.settle)
	}

	// A mountpoint that cannot be listed is likely stale (e.g. a dead NFS
	// handle): the kernel still has the mount registered but I/O fails.
	if err := c.listDir(spec.Path); err != nil {
		if !remount {
			c.log.Error().Err(err).Str("mountpoint", spec.Path).Msg("Mountpoint not readable, appears stale")
			return Stale
		}
		c.log.Warn().Err(err).Str("mountpoint", spec.Path).Msg("Mountpoint appears stale, attempting remount")
		if !c.runner.Unmount(spec.Path) {
			c.log.Error().Str("mountpoint", spec.Path).Msg("Mountpoint could not be unmounted for remount")
			return Stale
		}
		time.Sleep(c.settle)
		if !c.runner.Mount(spec.Path) {
			c.log.Error().Str("mountpoint", spec.Path).Msg("Unmounted stale mountpoint, but cannot remount")
			return Stale
		}
		time.Sleep(c.settle)
	}

	if spec.WriteCheck {
		checkDir := spec.CheckDirPath()
		if err := c.listDir(checkDir); err != nil {
			if err := os.Mkdir(checkDir, 0o700); err != nil {
				c.log.Error().Err(err).Str("dir", checkDir).Msg("Checkdir does not exist and could not be created")
				return CheckDirUnavailable
			}
			c.log.Warn().Str("dir", checkDir).Msg("Created monitor directory")
		}

		checkFile := spec.CheckFilePath()
		stamp := c.now().Format(time.ANSIC) + "\n"
		if err := os.WriteFile(checkFile, []byte(stamp), 0o644); err != nil {
			c.log.Error().Err(err).Str("file", checkFile).Msg("Could not write checkfile")
			return WriteFailed
		}
	}

	return OK
}
