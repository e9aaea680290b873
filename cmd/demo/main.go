// Command demo shows an Observable driving a request handler: a producer emits mock requests,
// the handlers answer them, and a malformed request ends the stream with an error.
package main

import (
	"log/slog"
	"os"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger, mockRequests()); err != nil {
		os.Exit(1)
	}
}
