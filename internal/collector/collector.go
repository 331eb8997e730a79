// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collector talks to the Bright Data managed-scraper (DCA) API:
// it triggers collector jobs and polls for their results.
package collector

import (
	"net/http"

	"github.com/pdiddy/harvest/pkg/types"
)

// Endpoint bases for the vendor API. Declared as vars so tests can
// substitute httptest servers.
var (
	triggerBase = "https://api.brightdata.com/dca/trigger"
	resultBase  = "https://api.brightdata.com/dca/get_result"
)

// Client issues authenticated requests against the collector API.
type Client struct {
	Client *http.Client
	Config types.CollectorConfig
}

// NewClient builds a Client with an HTTP client honoring cfg.Timeout.
func NewClient(cfg types.CollectorConfig) *Client {
	return &Client{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// authorize sets the headers every collector API request carries.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Config.Token)
	req.Header.Set("Content-Type", "application/json")
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}
}
