package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/toothbrush/atlassian-rag/internal/cache"
)

func NewAPI(baseURL string, username string, token string) (*API, error) {

	if baseURL == "" {
		return &API{}, fmt.Errorf("confluence: CONFLUENCE_URL is empty, set it in the environment or .env")
	}
	if username == "" {
		return &API{}, fmt.Errorf("confluence: CONFLUENCE_USERNAME is empty, set it in the environment or .env")
	}
	if token == "" {
		return &API{}, fmt.Errorf("confluence: CONFLUENCE_API_TOKEN is empty, set it in the environment or .env")
	}

	// Accept both https://org.atlassian.net and https://org.atlassian.net/wiki;
	// endpoints below carry the /wiki prefix themselves.
	u, err := url.ParseRequestURI(strings.TrimSuffix(baseURL, "/wiki"))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:  u,
		token:    token,
		username: username,
	}
	a.Client = &http.Client{}
	a.Limiter = rate.NewLimiter(rate.Limit(5), 10)
	a.Cache = cache.Nop{}

	return a, nil
}

type API struct {
	// Base URL of the Confluence instance, e.g. https://INSTANCE.atlassian.net
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Paces outgoing requests.  Swap it out to go faster or slower.
	Limiter *rate.Limiter

	// Response cache; defaults to a no-op unless Redis is configured.
	Cache cache.Cache

	// Auth info
	username, token string
}
