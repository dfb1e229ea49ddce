// Package geoip resolves an IP address to a city and country using the
// ipapi.co JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vipoffers/consent-api/internal/utils/httpclient"
)

// Fallback values used when the provider omits a field.
const (
	UnknownCity    = "Unknown City"
	UnknownCountry = "Unknown Country"
)

// Location is the result of an IP lookup
type Location struct {
	City    string
	Country string
}

// Client looks up IP geolocation via ipapi.co
type Client struct {
	baseURL string
	pool    *httpclient.Pool
}

// NewClient creates a geolocation client. baseURL is normally
// "https://ipapi.co"; tests point it at a local server.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		pool:    httpclient.GetGlobalPool(),
	}
}

type lookupResponse struct {
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup resolves the given IP address to a best-effort location.
// Missing fields in a successful response are substituted with the
// Unknown sentinels; transport and provider errors are returned to the
// caller, who decides whether to abort or degrade.
func (c *Client) Lookup(ctx context.Context, ipAddress string) (*Location, error) {
	u := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(ipAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.pool.Get()
	defer c.pool.Put(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("location lookup: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location lookup failed with status %d", resp.StatusCode)
	}

	var lookup lookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, fmt.Errorf("location lookup: unmarshal: %w", err)
	}

	// ipapi.co reports reserved/invalid addresses as a 200 with an
	// error flag in the body.
	if lookup.Error {
		return nil, fmt.Errorf("location lookup rejected: %s", lookup.Reason)
	}

	location := &Location{
		City:    lookup.City,
		Country: lookup.CountryName,
	}
	if location.City == "" {
		location.City = UnknownCity
	}
	if location.Country == "" {
		location.Country = UnknownCountry
	}

	return location, nil
}
