package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/loggo"
)

// configureLogging sends envedit's loggers to w at the given level.
// Everything outside envedit stays at WARNING.
func configureLogging(w io.Writer, level string) error {
	if level == "" {
		level = "WARNING"
	}
	if _, ok := loggo.ParseLevel(level); !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	if _, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(w, loggo.DefaultFormatter)); err != nil {
		return fmt.Errorf("configuring log writer: %w", err)
	}
	return loggo.ConfigureLoggers("<root>=WARNING;envedit=" + strings.ToUpper(level))
}
