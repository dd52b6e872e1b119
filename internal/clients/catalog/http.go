package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/observe"
)

// maxErrorBody caps how much of an error response is read for its message
const maxErrorBody = 64 << 10

// HTTPConfig configures the client for the BattleBrain backend catalog
type HTTPConfig struct {
	// BaseURL of the backend, e.g. http://127.0.0.1:8000
	BaseURL string
	// Timeout per request (optional, defaults to 10 seconds)
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout (optional)
	HTTPClient *http.Client
	Metrics    *observe.Metrics
}

// Validate validates the config and sets defaults if not provided
func (c *HTTPConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BaseURL == "" {
		vb.RequiredField("BaseURL")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		vb.Field("BaseURL", "must be an absolute URL")
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}

	return vb.Build()
}

type httpClient struct {
	baseURL string
	http    *http.Client
	metrics *observe.Metrics
}

// NewHTTP creates a catalog client for the backend's /open5e endpoints
func NewHTTP(cfg *HTTPConfig) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		metrics: cfg.Metrics,
	}, nil
}

type lookupResponse struct {
	Found      bool     `json:"found"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	HitPoints  *float64 `json:"hit_points"`
	ArmorClass *float64 `json:"armor_class"`
	Message    string   `json:"message"`
}

type suggestResponse struct {
	Results []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"results"`
}

type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

func (c *httpClient) LookupMonster(ctx context.Context, name string) (*Monster, error) {
	endpoint := c.baseURL + "/open5e/monster?" + url.Values{"name": {name}}.Encode()

	res, err := c.get(ctx, endpoint)
	if err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "catalog lookup failed").
			WithMeta("name", name)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "not_found")
		msg := errorMessage(res)
		slog.DebugContext(ctx, "Catalog lookup rejected", "name", name, "status", res.StatusCode, "message", msg)
		return &Monster{Found: false, Message: msg}, nil
	}

	var body lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode catalog lookup")
	}

	if !body.Found {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "not_found")
		msg := body.Message
		if msg == "" {
			msg = defaultNotFoundMessage
		}
		return &Monster{Found: false, Message: msg}, nil
	}

	c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "found")
	return &Monster{
		Found:      true,
		Name:       body.Name,
		Slug:       body.Slug,
		HitPoints:  body.HitPoints,
		ArmorClass: body.ArmorClass,
	}, nil
}

func (c *httpClient) SuggestMonsters(ctx context.Context, query string) ([]Suggestion, error) {
	endpoint := c.baseURL + "/open5e/suggest?" + url.Values{"query": {query}}.Encode()

	res, err := c.get(ctx, endpoint)
	if err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "catalog suggest failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "error")
		return nil, errors.Newf(errors.FromHTTPStatus(res.StatusCode), "catalog suggest returned %d", res.StatusCode)
	}

	var body suggestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode catalog suggestions")
	}

	out := make([]Suggestion, 0, len(body.Results))
	for _, r := range body.Results {
		if r.Name == "" {
			continue
		}
		out = append(out, Suggestion{Name: r.Name, Slug: r.Slug})
	}

	c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "ok")
	return out, nil
}

func (c *httpClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// errorMessage picks the best message out of a failed response: the JSON
// detail or message field, else the status text
func errorMessage(res *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		switch d := body.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if encoded, err := json.Marshal(d); err == nil {
				return string(encoded)
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if text := http.StatusText(res.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", res.StatusCode)
}
