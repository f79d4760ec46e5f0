//go:build unix

package venv

import (
	"os"
	"os/exec"
	"syscall"
)

// Handover replaces the current process with argv, running from dir with the
// given environment. On success it does not return.
func Handover(dir string, env []string, argv ...string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	return syscall.Exec(path, argv, env)
}
