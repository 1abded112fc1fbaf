package services

import (
	"context"
	"io"
	"log"
	"os"
)

// ConsoleLogWriter satisfies LogWriter without a database; the CLI uses it.
// In quiet mode only failures get through.
type ConsoleLogWriter struct {
	logger *log.Logger
	quiet  bool
}

func NewConsoleLogWriter(out io.Writer, quiet bool) (*ConsoleLogWriter, error) {
	if out == nil {
		out = os.Stderr
	}

	return &ConsoleLogWriter{
		logger: log.New(out, "", log.LstdFlags),
		quiet:  quiet,
	}, nil
}

func (w *ConsoleLogWriter) CreateLog(ctx context.Context, action string, outcome string, message *string) error {
	if w == nil || w.logger == nil {
		return nil
	}
	if w.quiet && outcome != LogOutcomeFail {
		return nil
	}
	_ = ctx

	text := ""
	if message != nil {
		text = *message
	}
	w.logger.Printf("%s %s %s", action, outcome, text)

	return nil
}
