// Package market fetches auction-house price snapshots and the realm list
// from the NexusHub API, with caching and cross-faction merging.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// DefaultBaseURL is the public NexusHub API endpoint.
const DefaultBaseURL = "https://api.nexushub.co"

// Client talks to the NexusHub HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Client against the given base URL ("" uses the public
// endpoint). Requests are retried with backoff on transient failures.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil
	return &Client{
		http:    rc.StandardClient(),
		baseURL: baseURL,
	}
}

// ListServers returns all known realms.
func (c *Client) ListServers(ctx context.Context) ([]craftcost.Server, error) {
	var servers []craftcost.Server
	if err := c.getJSON(ctx, c.baseURL+"/wow-classic/v1/servers/full/", &servers); err != nil {
		return nil, fmt.Errorf("listing servers: %w", err)
	}
	return servers, nil
}

// FetchPrices fetches the price snapshot for a single server+faction pair.
// The faction must be alliance or horde; "both" is synthesized by the Loader.
func (c *Client) FetchPrices(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, error) {
	slug := fmt.Sprintf("%s-%s", server, faction)

	var payload struct {
		Slug string `json:"slug"`
		Data []struct {
			ItemID      int     `json:"itemId"`
			Quantity    int     `json:"quantity"`
			MarketValue float64 `json:"marketValue"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/wow-classic/v1/items/"+slug+"/", &payload); err != nil {
		return nil, fmt.Errorf("fetching prices for %s: %w", slug, err)
	}

	snap := make(craftcost.Snapshot, len(payload.Data))
	for _, item := range payload.Data {
		snap[item.ItemID] = craftcost.MarketEntry{
			Quantity:    item.Quantity,
			MarketValue: item.MarketValue,
		}
	}

	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
