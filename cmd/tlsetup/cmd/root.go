package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tlsetup/tlsetup/internal/config"
	"github.com/tlsetup/tlsetup/internal/logger"
	"github.com/tlsetup/tlsetup/internal/service/bootstrap"
	"github.com/tlsetup/tlsetup/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// mirrorURL overrides the configured CTAN mirror.
	mirrorURL string
	// force discards the recorded step log and reinstalls from scratch.
	force bool
	// logLevel selects the minimum logging level.
	logLevel string

	// rootCmd represents the base command performing the bootstrap.
	rootCmd = &cobra.Command{
		Use:   "tlsetup",
		Short: "Install a user-level TeX Live distribution.",
		Long: `Downloads the TeX Live network installer from a CTAN mirror, unpacks it,
derives the release year, and runs the installer unattended against a
generated profile rooted in your home directory. No root privileges are
needed at any point.

After the installer finishes, tlsetup writes a sourceable environment
script next to the installation, maintains a managed block in your shell
startup file, and installs the tlmgr updater script into your personal
bin directory.

Completed expensive steps (download, extraction, the installer run) are
recorded in a step log, so an interrupted run resumes where it stopped.
Use --force to discard the log and start over.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &bootstrap.Options{
				ConfigPath: configPath,
				MirrorURL:  mirrorURL,
				Force:      force,
			}

			_, err := bootstrap.Run(ctx, options)

			return err
		},
	}
)

// Execute runs the tlsetup CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&mirrorURL, "mirror", "m", "", "CTAN mirror URL overriding the configuration")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "discard the recorded step log and start over")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
