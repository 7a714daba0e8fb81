package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gujord/pwa-validator/internal/banner"
	"github.com/gujord/pwa-validator/internal/config"
	"github.com/gujord/pwa-validator/internal/httpclient"
	"github.com/gujord/pwa-validator/internal/logger"
	"github.com/gujord/pwa-validator/internal/output"
	"github.com/gujord/pwa-validator/internal/runner"
)

const defaultTarget = "https://example.com"

var rootCmd = &cobra.Command{
	Use:   "pwa-validator [url]",
	Short: "Audit a website for Progressive Web App readiness",
	Long: `pwa-validator loads a site, checks its web app manifest, security headers,
PWA features and SSO redirects, and prints a prioritized list of fixes with
a final score out of 300.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := defaultTarget
		if len(args) == 1 {
			target = args[0]
		}
		return run(cmd.Context(), target)
	},
}

func run(ctx context.Context, target string) error {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "pwa-validator"))
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		return err
	}

	log := logger.New(cfg, "pwa-validator", os.Stderr)
	client := httpclient.New(httpclient.Config{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Insecure:  cfg.Insecure,
		Retries:   cfg.Retries,
	}, log.Named("http"))

	banner.Print(os.Stderr, cfg.NoColor)
	console := output.NewConsole(os.Stdout, cfg.NoColor)
	runner.New(cfg, client, console, log, nil).Run(ctx, target)
	return nil
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
