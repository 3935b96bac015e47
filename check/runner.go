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
	"os/exec"

	"github.com/rs/zerolog"
)

const (
	mountCmd  = "/usr/bin/mount"
	umountCmd = "/usr/bin/umount"
)

// CommandRunner invokes the external mount and umount commands used for
// recovery actions.
type CommandRunner interface {
	Mount(path string) bool
	Unmount(path string) bool
}

// ExecRunner runs the real mount(8) and umount(8) binaries. Both calls
// block until the external process exits; there is no timeout, so a hung
// command stalls the calling check.
type ExecRunner struct {
	log *zerolog.Logger
}

// NewExecRunner creates a runner that shells out to the system mount tools.
func NewExecRunner(logger *zerolog.Logger) *ExecRunner {
	return &ExecRunner{log: logger}
}

// Mount attempts to mount path and reports whether the command exited zero.
func (r *ExecRunner) Mount(path string) bool {
	return r.run(mountCmd, path)
}

// Unmount first attempts a normal unmount and falls back to a lazy unmount
// if the mountpoint is busy or unresponsive.
func (r *ExecRunner) Unmount(path string) bool {
	if r.run(umountCmd, path) {
		return true
	}
	return r.run(umountCmd, "-l", path)
}

func (r *ExecRunner) run(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.log.Error().Err(err).Str("cmd", name).Strs("args", args).Bytes("output", output).Msg("Command failed")
		return false
	}
	return true
}
