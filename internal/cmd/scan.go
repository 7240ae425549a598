package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"shaihulud/internal/report"
	"shaihulud/internal/telemetry"
	"shaihulud/pkg/config"
	"shaihulud/pkg/github"
	"shaihulud/pkg/scanner"
)

// scanSession holds everything a scan command needs once preconditions pass
type scanSession struct {
	runID   string
	cfg     *config.Config
	logger  *logrus.Logger
	client  *github.Client
	tracer  trace.Tracer
	printer *report.Printer
	cleanup func(context.Context)
}

// newPrinter decides on color: --no-color, NO_COLOR, or a non-terminal
// stdout all disable it.
func newPrinter(cmd *cobra.Command) *report.Printer {
	return newPrinterFor(cmd.OutOrStdout())
}

func newPrinterFor(out io.Writer) *report.Printer {
	noColor := noColorFlag || os.Getenv("NO_COLOR") != ""
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		noColor = true
	}

	return report.NewPrinter(out, noColor)
}

// loadConfig reads the config file and applies flags set on the command line
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.LoadConfigFromPath(configFlag)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		workers := workersFlag
		cfg.Scan.Workers = &workers
	}
	if flags.Changed("rps") {
		cfg.Scan.RequestsPerSecond = rpsFlag
	}
	if flags.Changed("api-url") {
		cfg.GitHub.APIURL = apiURLFlag
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}
	if flags.Changed("otel-endpoint") {
		cfg.Telemetry.OTLPEndpoint = otelEndpointFlag
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newScanSession(cmd *cobra.Command) (*scanSession, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, _ := logrus.ParseLevel(cfg.Log.Level) // validated by cfg.Validate
	logger.SetLevel(level)
	log := logger.WithField("run_id", runID)

	tp, cleanup, err := telemetry.InitTracing(log, telemetry.Config{
		ExporterEndpoint: cfg.Telemetry.OTLPEndpoint,
		InsecureExporter: cfg.Telemetry.Insecure,
		RunID:            runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	tracer := tp.Tracer("shaihulud")

	token := github.ResolveToken(tokenFlag, cfg)
	if token.Authenticated() {
		log.WithField("source", token.Source).Debug("using GitHub token")
	} else {
		log.Warn("no GitHub token found; unauthenticated requests are limited to 60 per hour")
	}

	client, err := github.NewClient(token.Token,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithRateLimiter(github.NewRateLimiter(cfg.Scan.RequestsPerSecond, 1)),
		github.WithTracerProvider(tp),
		github.WithLogger(log),
	)
	if err != nil {
		cleanup(context.Background())
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return &scanSession{
		runID:   runID,
		cfg:     cfg,
		logger:  logger,
		client:  client,
		tracer:  tracer,
		printer: newPrinter(cmd),
		cleanup: cleanup,
	}, nil
}

// Close flushes pending spans
func (s *scanSession) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.cleanup(ctx)
}

// run scans usernames and prints a line per user followed by the totals.
// org is only used for the header.
func (s *scanSession) run(ctx context.Context, usernames []string, org string) scanner.Summary {
	log := s.logger.WithField("run_id", s.runID)

	sc := scanner.NewScanner(s.client,
		scanner.WithLogger(log),
		scanner.WithTracer(s.tracer),
	)
	dispatcher := scanner.NewDispatcher(sc, s.cfg.Scan.WorkerCount(), log).WithRunID(s.runID)

	ctx, span := s.tracer.Start(ctx, "scan.run")
	defer span.End()

	s.printer.Start(len(usernames), org)
	summary := dispatcher.Run(ctx, usernames, s.printer.Result)
	summary.Quota = s.client.RateLimiter().GetStats()
	s.printer.Summary(summary)

	if summary.Quota.Observed {
		log.WithFields(logrus.Fields{
			"remaining": summary.Quota.RemainingRequests,
			"limit":     summary.Quota.Limit,
			"reset":     github.FormatResetTime(summary.Quota.ResetTime),
		}).Info("API quota after scan")
	}

	return summary
}
