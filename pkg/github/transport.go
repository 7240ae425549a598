package github

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// mediaType is the Accept value GitHub documents for the REST API.
const mediaType = "application/vnd.github+json"

// acceptTransport pins the Accept header. go-github sets its own versioned
// media type (and preview types on some endpoints) when building requests.
type acceptTransport struct {
	base http.RoundTripper
}

func (t *acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", mediaType)
	return t.base.RoundTrip(r)
}

// newHTTPClient builds the client shared by all workers. The credential is
// sent as "Authorization: token <credential>" and only when present. With a
// tracer provider each round trip gets its own client span. Pacing happens
// in Client before the request starts, so timeout only covers the HTTP call.
func newHTTPClient(token string, timeout time.Duration, tp trace.TracerProvider) *http.Client {
	base := http.DefaultTransport
	if tp != nil {
		base = otelhttp.NewTransport(base,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	var rt http.RoundTripper = &acceptTransport{base: base}

	if token = strings.TrimSpace(token); token != "" {
		rt = &oauth2.Transport{
			Base: rt,
			Source: oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: token, TokenType: "token"},
			),
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}
