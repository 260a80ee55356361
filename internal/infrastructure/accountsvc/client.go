// Package accountsvc is the dependent-service client for the account status
// endpoint of the owning service.
package accountsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/api/metrics"
	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

const (
	defaultTimeout = 3 * time.Second
	maxBodyBytes   = 4 << 10
)

// Client calls GET {baseURL}/accounts/{id}/status. It never retries and never
// caches: every outcome other than an active account is a denial.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type statusResponse struct {
	ID       string `json:"id"`
	IsActive *bool  `json:"isActive"`
	IsLocked bool   `json:"isLocked"`
}

// CheckActive returns the account status when the account is active. It returns
// domain.ErrRemoteForbidden for a 403 or an inactive account and
// domain.ErrRemoteUnavailable for everything else.
func (c *Client) CheckActive(ctx context.Context, accountID, authorization string) (*ports.AccountStatus, error) {
	start := time.Now()
	status, outcome, err := c.check(ctx, accountID, authorization)
	metrics.RemoteStatusDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return status, err
}

func (c *Client) check(ctx context.Context, accountID, authorization string) (*ports.AccountStatus, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/accounts/" + url.PathEscape(accountID) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Error().Err(err).Str("account_id", accountID).Msg("build status request")
		return nil, "unavailable", domain.ErrRemoteUnavailable
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ev := c.log.Warn()
		if errors.Is(err, context.DeadlineExceeded) {
			ev = ev.Dur("timeout", c.timeout)
		}
		ev.Err(err).Str("account_id", accountID).Msg("account service unreachable")
		return nil, "unavailable", domain.ErrRemoteUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Warn().Err(err).Str("account_id", accountID).Msg("read status response")
		return nil, "unavailable", domain.ErrRemoteUnavailable
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, "forbidden", domain.ErrRemoteForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("account_id", accountID).
			Msg("account service rejected status request")
		return nil, "unavailable", fmt.Errorf("%w: account service responded %d (%s): %s",
			domain.ErrRemoteUnavailable, resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body)))
	}

	var payload statusResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.IsActive == nil {
		c.log.Warn().Err(err).Str("account_id", accountID).Msg("malformed status response")
		return nil, "unavailable", domain.ErrRemoteUnavailable
	}
	if !*payload.IsActive {
		return nil, "forbidden", domain.ErrRemoteForbidden
	}

	return &ports.AccountStatus{ID: payload.ID, IsActive: true, IsLocked: payload.IsLocked}, "active", nil
}

// Ping probes the owning service's liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("account service health: %s", resp.Status)
	}
	return nil
}
