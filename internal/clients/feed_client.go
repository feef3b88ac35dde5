package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NetWatch/internal/config"
	"NetWatch/internal/models"
)

// Feed fetches the authoritative endpoint list from the remote inventory.
type Feed interface {
	Fetch(ctx context.Context) ([]models.RemoteEndpoint, error)
}

// FeedClient talks to the remote inventory behind a form login. Each
// fetch is a fresh session: POST the credentials, then GET the list with
// the session cookie the login handed back.
type FeedClient struct {
	cfg    *config.FeedConfig
	logger *slog.Logger
}

func NewFeedClient(cfg *config.FeedConfig, logger *slog.Logger) *FeedClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedClient{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *FeedClient) Fetch(ctx context.Context) ([]models.RemoteEndpoint, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
	}

	if err := c.login(ctx, client); err != nil {
		return nil, err
	}

	raw, err := c.fetchList(ctx, client)
	if err != nil {
		return nil, err
	}

	endpoints := c.parse(raw)
	if len(endpoints) == 0 {
		// An empty feed is indistinguishable from a broken one; treating
		// it as valid would delete every synced endpoint.
		return nil, ErrEmptyFeed
	}

	c.logger.Debug("fetched remote inventory", "endpoints", len(endpoints))
	return endpoints, nil
}

func (c *FeedClient) login(ctx context.Context, client *http.Client) error {
	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)
	form.Set("redirect", c.cfg.Redirect)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	return nil
}

func (c *FeedClient) fetchList(ctx context.Context, client *http.Client) (map[string]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ListURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	// {category: {"address:port" | "address:noport": display name}}
	var raw map[string]map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrFeedUnavailable, err)
	}

	return raw, nil
}

func (c *FeedClient) parse(raw map[string]map[string]string) []models.RemoteEndpoint {
	var endpoints []models.RemoteEndpoint

	for category, entries := range raw {
		for addressKey, name := range entries {
			address, port, err := splitAddressKey(addressKey)
			if err != nil {
				c.logger.Warn("skipping malformed feed entry",
					"category", category,
					"entry", addressKey,
					"error", err,
				)
				continue
			}

			endpoints = append(endpoints, models.RemoteEndpoint{
				Name:     name,
				Address:  address,
				Port:     port,
				Category: category,
			})
		}
	}

	return endpoints
}

func splitAddressKey(key string) (string, *int, error) {
	idx := strings.LastIndex(key, ":")
	if idx <= 0 || idx == len(key)-1 {
		return "", nil, fmt.Errorf("missing port suffix in %q", key)
	}

	address := key[:idx]
	suffix := key[idx+1:]

	if suffix == models.NoPort {
		return address, nil, nil
	}

	port, err := strconv.Atoi(suffix)
	if err != nil || port < 1 || port > 65535 {
		return "", nil, fmt.Errorf("invalid port %q in %q", suffix, key)
	}

	return address, &port, nil
}
