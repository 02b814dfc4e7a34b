// Package instance keeps a single bar running per X display.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrRunning is returned by Acquire when a live process holds the lock.
var ErrRunning = errors.New("statusbar already running")

// Path returns the PID file for display, under $XDG_RUNTIME_DIR when set
// and the temp dir otherwise.
func Path(display string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	name := strings.NewReplacer(":", "", "/", "_").Replace(display)
	if name == "" {
		name = "default"
	}
	return filepath.Join(dir, "statusbar", "display-"+name+".pid")
}

// Acquire writes the current PID to path. A file left by a dead process is
// replaced.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create PID directory: %w", err)
	}
	if pid, err := Read(path); err == nil {
		if Alive(pid) && pid != os.Getpid() {
			return fmt.Errorf("%w (PID %d)", ErrRunning, pid)
		}
		os.Remove(path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename PID file: %w", err)
	}
	return nil
}

// Release removes path if it still names this process.
func Release(path string) error {
	pid, err := Read(path)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

// Read parses the PID stored in path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse PID file: %w", err)
	}
	return pid, nil
}

// Alive reports whether pid exists. EPERM means it exists but belongs to
// someone else.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
