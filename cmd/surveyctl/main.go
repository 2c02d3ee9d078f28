package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/orci-tz/mafunzo/internal/cli"
	"github.com/orci-tz/mafunzo/internal/utils"
	"github.com/orci-tz/mafunzo/pkg/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Session file: env var or default ~/.mafunzo/session.json
	sessionPath := utils.SafeEnv("SURVEY_SESSION", "")
	if sessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		sessionPath = filepath.Join(home, ".mafunzo", "session.json")
	}
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return err
	}

	opts := []client.Option{
		client.WithSession(session),
		client.WithTimeout(utils.EnvDuration("SURVEY_TIMEOUT", 30*time.Second)),
	}
	if dir := utils.SafeEnv("SURVEY_DIRECTORY_URL", ""); dir != "" {
		opts = append(opts, client.WithDirectoryURL(dir))
	}

	app := &cli.App{
		Client: client.NewClient(utils.SafeEnv("SURVEY_SERVER", "http://localhost:8080"), opts...),
		Locale: utils.SafeEnv("SURVEY_LANG", utils.DefaultLocale),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
