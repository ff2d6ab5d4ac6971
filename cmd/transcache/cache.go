package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/cache"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and move the translation cache",
	}

	var format, output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every cached translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store cache.Store) error {
				exporter := cache.NewExporter(store)
				metadata := map[string]string{"exported_by": transcache.UserAgent()}

				if output == "" {
					return exporter.Export(c.stdout, format, metadata)
				}

				f, err := os.Create(output) // #nosec G304 - path is intentionally user-provided
				if err != nil {
					return fmt.Errorf("creating file: %w", err)
				}
				defer f.Close()

				if !cmd.Flags().Changed("format") {
					format = cache.FormatFromPath(output)
				}
				if err := exporter.Export(f, format, metadata); err != nil {
					return err
				}
				fmt.Fprintf(c.stderr, "Exported %d entries to %s\n", store.Stats().Entries, output)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", cache.FormatJSON, "export format: json or yaml")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an export file into the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store cache.Store) error {
				result, err := cache.NewImporter(store).ImportFromFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "Imported %d entries across %d language pairs", result.Imported, result.Partitions)
				if result.Skipped > 0 {
					fmt.Fprintf(c.stdout, " (%d skipped)", result.Skipped)
				}
				fmt.Fprintln(c.stdout)
				return nil
			})
		},
	}

	var asJSON bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store cache.Store) error {
				stats := store.Stats()
				if asJSON {
					enc := json.NewEncoder(c.stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}
				fmt.Fprintf(c.stdout, "Backend:    %s\nPairs:      %d\nEntries:    %d\n",
					stats.Backend, stats.Partitions, stats.Entries)
				return nil
			})
		},
	}
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")

	cmd.AddCommand(exportCmd, importCmd, statsCmd)
	return cmd
}

// withStore loads config, opens the configured store and closes it after fn.
func (c *cli) withStore(cmd *cobra.Command, fn func(cache.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, c.stderr)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
