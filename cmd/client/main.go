package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wordwhiz/wordwhiz/pkg/client"
	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/version"
)

func main() {
	serverAddr := flag.String("server", "localhost:9400", "Server address (host:port)")
	name := flag.String("name", "", "Display name (1-16 characters)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	logLevel := flag.String("log-level", "warn", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	if *showVersion {
		fmt.Println("wordwhiz-client", version.Full())
		return
	}

	// Logs go to stderr so they do not interleave with the chat output.
	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stderr,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "a display name is required (-name)")
		os.Exit(1)
	}

	c := client.New(*serverAddr, *name)
	if err := c.Run(); err != nil {
		slog.Error("client error", "err", err)
		os.Exit(1)
	}
}
