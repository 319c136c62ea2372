package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dendrascience/tidy/internal/config"
	"github.com/dendrascience/tidy/internal/logging"
	"github.com/dendrascience/tidy/internal/runlock"
	"github.com/dendrascience/tidy/internal/sorter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type sortFlags struct {
	configPath string
	output     string
	workers    int
	queue      int
	verify     bool
	dryRun     bool
	noLock     bool
	logLevel   string
	logFormat  string
}

func newSortCmd() *cobra.Command {
	var flags sortFlags

	cmd := &cobra.Command{
		Use:   "tidy SOURCE [OUTPUT]",
		Short: "Sort the files of a directory into folders named after their extensions",
		Long: `tidy copies every file directly inside SOURCE into OUTPUT/<extension>/,
creating each extension directory once no matter how many files need it.

Files without an extension stay where they are. Subdirectories of SOURCE are
not descended into. Sources are copied, never moved or deleted.

OUTPUT defaults to the -o flag, then output_root in the config file, then ./sorted.

A SOURCE named like a subcommand (count, seed, config) runs that subcommand;
write it as a path instead, e.g. tidy ./count.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args, &flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default ~/.config/tidy/config.toml)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Directory to sort into (default ./sorted)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Maximum concurrent copies (0 = one per file)")
	cmd.Flags().IntVar(&flags.queue, "queue", 0, "Directory request queue capacity")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Verify every copy with SHA-256")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.Flags().BoolVar(&flags.noLock, "no-lock", false, "Do not lock the output root")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format: console, json")

	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f *sortFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.MaxWorkers = f.workers
	}
	if changed("queue") {
		cfg.QueueCapacity = f.queue
	}
	if changed("verify") {
		cfg.VerifyCopies = f.verify
	}
	if changed("no-lock") {
		cfg.Lock = !f.noLock
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(f.logLevel)
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(f.logFormat)
	}
	return cfg.Validate()
}

// resolveOutput picks the output root: positional argument, then -o, then config.
func resolveOutput(args []string, flagValue, configValue string) string {
	if len(args) > 1 && args[1] != "" {
		return args[1]
	}
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func runSort(cmd *cobra.Command, args []string, flags *sortFlags) error {
	cfg, _, _, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	source := args[0]
	output := resolveOutput(args, flags.output, cfg.OutputRoot)
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fs := afero.NewOsFs()

	if pathsOverlap(source, output) {
		logger.Warn("output root overlaps the source directory", "source", source, "output", output)
	}

	if flags.dryRun {
		plan, err := sorter.NewPlan(fs, source, output)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "DRY RUN - no changes will be made")
		fmt.Fprint(out, renderPlan(plan, colorize))
		return nil
	}

	if cfg.Lock {
		lock, err := runlock.Acquire("", output)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	perm, err := cfg.DirMode()
	if err != nil {
		return err
	}
	s := sorter.New(fs, sorter.Options{
		QueueCapacity: cfg.QueueCapacity,
		MaxWorkers:    cfg.MaxWorkers,
		DirPerm:       perm,
		Verify:        cfg.VerifyCopies,
	}, logger)

	summary, err := s.Run(cmd.Context(), source, output)
	if err != nil {
		return err
	}

	// Per-file failures are reported but do not fail the command.
	fmt.Fprint(out, renderFailures(summary, colorize))
	fmt.Fprint(out, renderSummary(summary, colorize))
	return nil
}

// pathsOverlap reports whether one path is the other or contains it.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return false
	}
	if abs1 == abs2 {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(abs1, abs2+sep) || strings.HasPrefix(abs2, abs1+sep)
}
