package cmd

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var defaultSeedExts = []string{"txt", "md", "jpg", "png", "pdf", "go", "gz", "JPG"}

// NewSeedCmd creates and returns the seed subcommand for the tidy CLI.
// It fills a directory with a mix of files to try sorting on.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		exts       []string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a messy directory of test files",
		Long: `Generate a flat directory of files with mixed extensions for trying tidy.

Files get random lowercase hex names. Roughly one in ten has no extension,
one in twenty is a dotfile, and one subdirectory is added so the ignored
path is exercised. Each file contains a single UUID line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, outputPath, fileCount, exts, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "n", 200, "Number of files to generate")
	cmd.Flags().StringSliceVar(&exts, "exts", defaultSeedExts, "Extensions to draw from")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(cmd *cobra.Command, outputPath string, fileCount int, exts []string, verbose bool) error {
	if fileCount < 0 {
		return fmt.Errorf("count must be non-negative, got %d", fileCount)
	}
	if len(exts) == 0 {
		return errors.New("at least one extension is required")
	}
	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintf(out, "Generating %d test files in %s\n", fileCount, outputPath)
	}

	if err := os.MkdirAll(filepath.Join(outputPath, "nested"), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	perExt := make(map[string]int)
	created := 0
	for created < fileCount {
		name, err := randomHex()
		if err != nil {
			return err
		}

		roll, err := randomInt(100)
		if err != nil {
			return err
		}
		label := "(none)"
		switch {
		case roll < 5:
			name = "." + name
		case roll < 15:
		default:
			i, err := randomInt(len(exts))
			if err != nil {
				return err
			}
			ext := strings.TrimPrefix(exts[i], ".")
			name += "." + ext
			label = ext
		}

		path := filepath.Join(outputPath, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(uuid.New().String()+"\n"), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		perExt[label]++
		created++

		if verbose && created%100 == 0 {
			fmt.Fprintf(out, "Created %d/%d files...\n", created, fileCount)
		}
	}

	if verbose {
		fmt.Fprintf(out, "Successfully created %d files\n", created)
		for _, ext := range sortedKeys(perExt) {
			fmt.Fprintf(out, "  %-8s %d\n", ext, perExt[ext])
		}
	}
	return nil
}

func randomHex() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(0xFFFFFFFF))
	if err != nil {
		return "", fmt.Errorf("generate name: %w", err)
	}
	return fmt.Sprintf("%08x", n.Int64()), nil
}

func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("generate random number: %w", err)
	}
	return int(n.Int64()), nil
}
