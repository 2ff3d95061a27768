package strata

import (
	"os"
	"path/filepath"
)

// processName returns the short name of the running executable, used
// only for diagnostic log lines (which process opened/committed a
// revision), never for on-disk naming.
func processName() string {
	exe, err := os.Executable()
	if err != nil {
		return "strata"
	}
	return filepath.Base(exe)
}
