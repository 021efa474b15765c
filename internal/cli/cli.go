package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/compcal/internal/calendar"
	"github.com/pfrederiksen/compcal/internal/config"
	"github.com/pfrederiksen/compcal/internal/crawler"
	"github.com/pfrederiksen/compcal/internal/logger"
	"github.com/pfrederiksen/compcal/internal/metrics"
	"github.com/pfrederiksen/compcal/internal/scraper"
	"github.com/pfrederiksen/compcal/internal/server"
	"github.com/pfrederiksen/compcal/internal/trigger"
	"github.com/pfrederiksen/compcal/internal/wca"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

type rootOptions struct {
	configPath string
	format     string
	verbose    bool
	stdout     io.Writer
	stdin      io.Reader
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stdout, os.Stdin)
}

func newRootCmd(stdout io.Writer, stdin io.Reader) *cobra.Command {
	opts := &rootOptions{
		stdout: stdout,
		stdin:  stdin,
	}

	cmd := &cobra.Command{
		Use:   "compcal",
		Short: "Ingest WCA competitions and serve them as a calendar",
		Long: `compcal pages through the WCA competitions API, scrapes each competition's
registration window, stores the records and publishes a run summary.
The stored competitions can be served as a subscribable iCalendar feed.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newRunCmd(opts), newServeCmd(opts), newListCmd(opts))
	return cmd
}

// load reads the config and configures the default logger.
func (o *rootOptions) load() (*config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return nil, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	return cfg, format, nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		eventFile string
		scheduled bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one ingest of WCA competitions",
		Long: `Run one ingest. Without a trigger event the run is an initial load of every
competition starting from now. A scheduled trigger (--scheduled, or an event whose
detail-type is "Scheduled Event") loads competitions announced in the last 6 hours.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := opts.load()
			if err != nil {
				return err
			}

			ev, err := readEvent(opts.stdin, eventFile, scheduled)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runOnce(ctx, cfg, ev, opts.stdout, format)
		},
	}

	cmd.Flags().StringVar(&eventFile, "event-file", "", "Trigger event JSON file, or - for stdin")
	cmd.Flags().BoolVar(&scheduled, "scheduled", false, "Run as a scheduled (incremental) trigger")
	return cmd
}

func readEvent(stdin io.Reader, path string, scheduled bool) (trigger.Event, error) {
	if scheduled {
		return trigger.Scheduled(), nil
	}
	if path == "" {
		return trigger.Event{}, nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading event: %w", err)
	}
	return trigger.Parse(data)
}

func runOnce(ctx context.Context, cfg *config.Config, ev trigger.Event, w io.Writer, format OutputFormat) error {
	policy, err := scraper.ParsePolicy(cfg.Enrich.Policy)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// keep JSON output parseable
	notifyOut := w
	if format == FormatJSON {
		notifyOut = os.Stderr
	}
	pub, err := newPublisher(cfg, notifyOut)
	if err != nil {
		return err
	}

	m := metrics.New()
	c := crawler.New(crawler.Deps{
		Source:    wca.NewClient(cfg.WCA.APIURL, nil),
		Enricher:  scraper.New(scraper.WithPolicy(policy)),
		Store:     st,
		Publisher: pub,
		Metrics:   m,
	}, crawler.Options{
		Topic:    cfg.Notify.Topic,
		MaxPages: cfg.PageLimit(),
	})

	res, runErr := c.Run(ctx, ev)

	pushMetrics(ctx, m, cfg.Metrics.PushgatewayURL)

	if runErr != nil {
		return fmt.Errorf("run %s: %w", res.RunID, runErr)
	}
	if err := WriteRunResult(w, res, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored competitions as an iCalendar feed",
		Long: `Serve GET /cal/{region}[+{region}...][/{sub-region}...] as text/calendar.
Two-letter tokens are country codes, longer tokens are sub-regions.
An empty path serves region ` + calendar.DefaultRegion + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			return server.New(st, metrics.New(), logger.Default(),
				server.WithCacheTTL(server.DefaultCacheTTL)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from HTTP_ADDR or "+config.DefaultHTTPAddr+")")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		sortOrder string
		path      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored competitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := opts.load()
			if err != nil {
				return err
			}

			order := SortOrder(strings.ToLower(sortOrder))
			if order != SortByDate && order != SortByRegion && order != SortByName {
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'region', or 'name')", sortOrder)
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing records: %w", err)
			}
			if path != "" {
				records = calendar.ParsePath(path).Filter(records)
			}
			sortRecords(records, order)

			return WriteRecords(opts.stdout, records, format, opts.verbose)
		},
	}

	cmd.Flags().StringVar(&sortOrder, "sort", "date", "Sort order: date, region or name")
	cmd.Flags().StringVar(&path, "regions", "", "Region filter in feed path form, e.g. DE+AT or US/Oregon")
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
