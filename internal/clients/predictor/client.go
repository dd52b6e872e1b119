// Package predictor is the client for the win-probability model service
package predictor

//go:generate mockgen -destination=mock/mock_client.go -package=predictormock github.com/KirkDiggler/battlebrain/internal/clients/predictor Client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
)

// Client submits effective stats for a prediction
type Client interface {
	Predict(ctx context.Context, stats entities.EffectiveStats) (*entities.PredictionResult, error)
}

// Config contains configuration options for the HTTP predictor client
type Config struct {
	// BaseURL of the prediction service, e.g. http://127.0.0.1:8000
	BaseURL string
	// Timeout per request (optional, defaults to 30 seconds)
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout (optional)
	HTTPClient *http.Client
}

// Validate validates the config and sets defaults if not provided
func (c *Config) Validate() error {
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
		c.Timeout = 30 * time.Second
	}

	return vb.Build()
}

type client struct {
	endpoint string
	http     *http.Client
}

// New creates an HTTP predictor client
func New(cfg *Config) (Client, error) {
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

	return &client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/predict",
		http:     hc,
	}, nil
}

func (c *client) Predict(ctx context.Context, stats entities.EffectiveStats) (*entities.PredictionResult, error) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode prediction request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build prediction request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapWithCode(err, errors.CodeCanceled, "prediction request canceled")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "prediction request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Unavailablef("Predict request failed (%d)", res.StatusCode).
			WithMeta("status", res.StatusCode)
	}

	var result entities.PredictionResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode prediction response")
	}

	return &result, nil
}
