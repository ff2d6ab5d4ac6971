// Command transcache serves the caching translation endpoint and manages its
// cache.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/config"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = transcache.Version
	commit    = transcache.GitCommit
	buildDate = transcache.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// cli carries state shared by every subcommand.
type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	v          *viper.Viper
	configPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		stdout: stdout,
		stderr: stderr,
		v:      config.NewViper(),
	}

	root := &cobra.Command{
		Use:           transcache.Name,
		Short:         transcache.Description,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to config file (default: $TRANSCACHE_CONFIG)")
	flags.String("cache-backend", "", "cache backend: file, redis or sqlite")
	flags.String("cache-path", "", "cache file for the file backend")
	flags.String("log-level", "", "log level")
	flags.String("provider", "", "translation provider: openai, gemini or mock")
	_ = c.v.BindPFlag("cache.backend", flags.Lookup("cache-backend"))
	_ = c.v.BindPFlag("cache.path", flags.Lookup("cache-path"))
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("provider.type", flags.Lookup("provider"))

	root.AddCommand(
		newServeCmd(c),
		newTranslateCmd(c),
		newCacheCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.FromViper(c.v, c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.stdout, "%s %s\n", transcache.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(c.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(c.stdout, "  built:   %s\n", buildDate)
			}
			return nil
		},
	}
}
