// Command pricectl exports and imports brand price files from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricebook/internal/app"
	"github.com/JonMunkholm/pricebook/internal/config"
	"github.com/JonMunkholm/pricebook/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricectl",
		Short:         "Export and import catalog price files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd(), newImportCmd())
	return root
}

// connect loads configuration and builds the service. The caller closes the
// returned App.
func connect(ctx context.Context) (*app.App, *config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

// errRowErrors marks an import that finished with row errors.
var errRowErrors = errors.New("import finished with row errors")

func exitCode(err error) int {
	if errors.Is(err, errRowErrors) {
		return 2
	}
	return 1
}
