package scanner

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"shaihulud/pkg/github"
)

// Scanner checks a single user's public repositories for the indicator.
// It holds no per-scan state and is safe for concurrent use.
type Scanner struct {
	client    github.APIClient
	predicate Predicate
	logger    logrus.FieldLogger
	tracer    trace.Tracer
}

// Option configures a Scanner
type Option func(*Scanner)

// WithPredicate replaces the description test
func WithPredicate(p Predicate) Option {
	return func(s *Scanner) {
		if p != nil {
			s.predicate = p
		}
	}
}

// WithLogger sets the logger for per-user debug output
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer records a span per scanned user
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewScanner creates a Scanner. The client carries the credential used for
// every request.
func NewScanner(client github.APIClient, opts ...Option) *Scanner {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Scanner{
		client:    client,
		predicate: ContainsIndicator,
		logger:    discard,
		tracer:    noop.NewTracerProvider().Tracer("shaihulud/pkg/scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the user's repositories page by page and stops at the first
// description the predicate accepts. Any request failure ends the scan with
// a Failed outcome carrying the client's message.
func (s *Scanner) Scan(ctx context.Context, username string) Outcome {
	username = strings.TrimSpace(username)
	if username == "" {
		return Failed(github.NewError(github.ErrorTypeEmptyInput, "Empty username", nil))
	}

	ctx, span := s.tracer.Start(ctx, "scanner.scan",
		trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	log := s.logger.WithField("username", username)

	outcome := s.scan(ctx, username, log)

	span.SetAttributes(attribute.String("status", string(outcome.Status)))
	if outcome.Status == StatusFailed {
		span.SetStatus(codes.Error, outcome.Reason)
	}

	return outcome
}

func (s *Scanner) scan(ctx context.Context, username string, log logrus.FieldLogger) Outcome {
	for page := 1; ; page++ {
		result, err := s.client.ListUserRepos(ctx, username, page)
		if err != nil {
			log.WithError(err).WithField("page", page).Debug("scan failed")
			return Failed(err)
		}

		for _, repo := range result.Items {
			if s.predicate(repo.Description) {
				log.WithFields(logrus.Fields{
					"repo": repo.FullName,
					"page": page,
				}).Debug("indicator found")
				return Flagged(repo.HTMLURL)
			}
		}

		if !result.HasMore {
			log.WithField("pages", page).Debug("no indicator found")
			return Clean()
		}
	}
}
