package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/processor"
)

type translateOptions struct {
	source   string
	target   string
	htmlFile string
	output   string
	quiet    bool
}

func newTranslateCmd(c *cli) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate texts or an HTML file through the cache",
		Long: `Translate the given texts (or the text nodes of an HTML file) using the
configured cache and provider. Cached texts are not sent to the provider.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.translate(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.source, "from", transcache.DefaultSourceLang, "source language code")
	flags.StringVar(&opts.target, "to", transcache.DefaultTargetLang, "target language code")
	flags.StringVar(&opts.htmlFile, "html", "", "translate an HTML file instead of arguments")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

func (c *cli) translate(cmd *cobra.Command, opts *translateOptions, args []string) error {
	if opts.htmlFile == "" && len(args) == 0 {
		return transcache.ErrNoText
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, c.stderr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}
	coord := newCoordinator(p, store, cfg, logger)

	out := c.stdout
	if opts.output != "" {
		f, err := os.Create(opts.output) // #nosec G304 - path is intentionally user-provided
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	start := time.Now()
	if opts.htmlFile != "" {
		return c.translateHTMLFile(cmd, coord, opts, out, start)
	}

	result, err := coord.Translate(ctx, transcache.Batch(args...), opts.source, opts.target)
	if err != nil {
		return err
	}
	for _, item := range result.Items {
		fmt.Fprintln(out, item.Translated)
	}

	if !opts.quiet {
		fmt.Fprintf(c.stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(c.stderr, "  Translated:   %d\n", result.TranslatedCount)
		fmt.Fprintf(c.stderr, "  From cache:   %d\n", result.CachedCount)
		if result.FailedCount > 0 {
			fmt.Fprintf(c.stderr, "  Failed:       %d\n", result.FailedCount)
		}
	}
	return nil
}

func (c *cli) translateHTMLFile(cmd *cobra.Command, coord *transcache.Coordinator, opts *translateOptions, out io.Writer, start time.Time) error {
	content, err := os.ReadFile(opts.htmlFile) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if !opts.quiet {
		fmt.Fprintf(c.stderr, "Translating %s to %s...\n", filepath.Base(opts.htmlFile), opts.target)
	}

	result, err := processor.NewHTMLProcessor().TranslateHTML(cmd.Context(), coord, string(content), opts.source, opts.target)
	if err != nil {
		return err
	}

	fmt.Fprint(out, result.HTML)
	if !strings.HasSuffix(result.HTML, "\n") {
		fmt.Fprintln(out)
	}

	if !opts.quiet {
		fmt.Fprintf(c.stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(c.stderr, "  Nodes found:  %d\n", result.TotalNodes)
		fmt.Fprintf(c.stderr, "  Translated:   %d\n", result.TranslatedCount)
		fmt.Fprintf(c.stderr, "  From cache:   %d\n", result.CachedCount)
	}
	return nil
}
