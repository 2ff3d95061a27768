// Ambient structured logging, wired the way cuemby/warren threads a
// zerolog.Logger through its components: passed in via Config, never
// pulled from a package-level global.
package strata

import (
	"io"

	"github.com/rs/zerolog"
)

// defaultLogger discards everything. Open resolves a zero-value
// Config.Logger to this so the store is silent unless a caller opts in.
func defaultLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
