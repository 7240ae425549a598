package github

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// RequestTimeout bounds every request, including reading the body.
	RequestTimeout = 10 * time.Second

	// PerPage is the page size requested from list endpoints.
	PerPage = 100

	// UserAgent identifies the scanner to GitHub.
	UserAgent = "shai-hulud-scan/0.1"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client      *github.Client
	rateLimiter *RateLimiter
	tracer      trace.Tracer
	logger      logrus.FieldLogger
}

// Option configures a Client
type Option func(*clientOptions) error

type clientOptions struct {
	baseURL        *url.URL
	timeout        time.Duration
	rateLimiter    *RateLimiter
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	logger         logrus.FieldLogger
}

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise server.
func WithBaseURL(raw string) Option {
	return func(o *clientOptions) error {
		if raw == "" {
			return nil
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid API URL %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid API URL %q: scheme and host are required", raw)
		}
		o.baseURL = u
		return nil
	}
}

// WithRequestTimeout overrides RequestTimeout for each HTTP call
func WithRequestTimeout(d time.Duration) Option {
	return func(o *clientOptions) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", d)
		}
		o.timeout = d
		return nil
	}
}

// WithRateLimiter paces requests and records quota headers
func WithRateLimiter(rl *RateLimiter) Option {
	return func(o *clientOptions) error {
		o.rateLimiter = rl
		return nil
	}
}

// WithTracer records a span per request
func WithTracer(tracer trace.Tracer) Option {
	return func(o *clientOptions) error {
		o.tracer = tracer
		return nil
	}
}

// WithTracerProvider records a span per list call and a child span per HTTP round trip
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) error {
		if tp != nil {
			o.tracerProvider = tp
			o.tracer = tp.Tracer("shaihulud/pkg/github")
		}
		return nil
	}
}

// WithLogger sets the logger used for page-level debug output
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *clientOptions) error {
		o.logger = logger
		return nil
	}
}

// NewClient creates a GitHub API client. An empty token makes unauthenticated
// requests, which GitHub rate limits more aggressively.
func NewClient(token string, opts ...Option) (*Client, error) {
	o := &clientOptions{timeout: RequestTimeout}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.rateLimiter == nil {
		o.rateLimiter = NewRateLimiter(0, 1)
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("shaihulud/pkg/github")
	}
	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}

	gh := github.NewClient(newHTTPClient(token, o.timeout, o.tracerProvider))
	gh.UserAgent = UserAgent
	if o.baseURL != nil {
		gh.BaseURL = o.baseURL
	}

	return &Client{
		client:      gh,
		rateLimiter: o.rateLimiter,
		tracer:      o.tracer,
		logger:      o.logger,
	}, nil
}

// RateLimiter returns the limiter shared by this client's requests
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ListOrgMembers fetches one page of orgs/{org}/members
func (c *Client) ListOrgMembers(ctx context.Context, org string, page int) (*Page[Member], error) {
	ctx, span := c.tracer.Start(ctx, "github.list_org_members",
		trace.WithAttributes(
			attribute.String("org", org),
			attribute.Int("page", page),
		))
	defer span.End()

	if err := c.pace(ctx, ResourceOrganization, "organization "+org); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	opts := &github.ListMembersOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: PerPage},
	}
	users, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
	c.observe(resp)

	if err := classifyResponse(resp, err, ResourceOrganization, "organization "+org); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &Page[Member]{
		Items:   make([]Member, 0, len(users)),
		HasMore: hasNextPage(resp),
	}
	for _, u := range users {
		if u == nil {
			continue
		}
		result.Items = append(result.Items, convertGitHubMember(u))
	}

	span.SetAttributes(
		attribute.Int("members_count", len(result.Items)),
		attribute.Bool("has_more", result.HasMore),
	)
	c.logger.WithFields(logrus.Fields{
		"org":      org,
		"page":     page,
		"members":  len(result.Items),
		"has_more": result.HasMore,
	}).Debug("fetched org members page")

	return result, nil
}

// ListUserRepos fetches one page of users/{username}/repos
func (c *Client) ListUserRepos(ctx context.Context, username string, page int) (*Page[Repository], error) {
	ctx, span := c.tracer.Start(ctx, "github.list_user_repos",
		trace.WithAttributes(
			attribute.String("username", username),
			attribute.Int("page", page),
		))
	defer span.End()

	if err := c.pace(ctx, ResourceUser, "user "+username); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: PerPage},
	}
	repos, resp, err := c.client.Repositories.ListByUser(ctx, username, opts)
	c.observe(resp)

	if err := classifyResponse(resp, err, ResourceUser, "user "+username); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &Page[Repository]{
		Items:   make([]Repository, 0, len(repos)),
		HasMore: hasNextPage(resp),
	}
	for _, r := range repos {
		if r == nil {
			continue
		}
		result.Items = append(result.Items, convertGitHubRepository(r))
	}

	span.SetAttributes(
		attribute.Int("repos_count", len(result.Items)),
		attribute.Bool("has_more", result.HasMore),
	)
	c.logger.WithFields(logrus.Fields{
		"username": username,
		"page":     page,
		"repos":    len(result.Items),
		"has_more": result.HasMore,
	}).Debug("fetched user repos page")

	return result, nil
}

// pace blocks until the limiter admits a request. Only cancellation of ctx
// ends the wait early.
func (c *Client) pace(ctx context.Context, kind ResourceKind, resource string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return classifyResponse(nil, err, kind, resource)
	}
	return nil
}

func (c *Client) observe(resp *github.Response) {
	if resp != nil {
		c.rateLimiter.Observe(resp.Rate)
	}
}
