// Package salesforce is the one-way sync boundary with the CRM. All
// knowledge of external field names lives here; the rest of the app only
// ever sees local entities.
package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/communityspring/volunteer-api-go/pkg/config"
	"golang.org/x/oauth2/clientcredentials"
)

// Record is a raw CRM row. Field names drift across org configurations, so
// records stay generic until mapping.go translates them.
type Record map[string]any

// Client is a minimal Salesforce REST client authenticated with OAuth2
// client credentials.
type Client struct {
	http        *http.Client
	instanceURL string
	apiVersion  string
}

// NewClient builds a client, or nil when no credentials are configured
// (sync disabled for local development).
func NewClient(ctx context.Context, cfg config.Salesforce) *Client {
	if cfg.ClientID == "" || cfg.InstanceURL == "" {
		return nil
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Client{
		http:        cc.Client(ctx),
		instanceURL: cfg.InstanceURL,
		apiVersion:  cfg.APIVersion,
	}
}

type queryResponse struct {
	TotalSize      int      `json:"totalSize"`
	Done           bool     `json:"done"`
	Records        []Record `json:"records"`
	NextRecordsURL string   `json:"nextRecordsUrl"`
}

// Query runs a SOQL query and follows pagination until done.
func (c *Client) Query(ctx context.Context, soql string) ([]Record, error) {
	next := fmt.Sprintf("%s/services/data/%s/query?q=%s",
		c.instanceURL, c.apiVersion, url.QueryEscape(soql))

	var records []Record
	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("salesforce query: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read query response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("salesforce query: status %d: %s", resp.StatusCode, body)
		}

		var page queryResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}
		records = append(records, page.Records...)

		next = ""
		if !page.Done && page.NextRecordsURL != "" {
			next = c.instanceURL + page.NextRecordsURL
		}
	}
	return records, nil
}

type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// CreateObject inserts one sobject and returns its Salesforce id.
func (c *Client) CreateObject(ctx context.Context, object string, fields map[string]any) (string, error) {
	endpoint := fmt.Sprintf("%s/services/data/%s/sobjects/%s",
		c.instanceURL, c.apiVersion, object)

	payload, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("salesforce create %s: %w", object, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read create response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("salesforce create %s: status %d: %s", object, resp.StatusCode, body)
	}

	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("salesforce create %s: not successful", object)
	}
	return out.ID, nil
}
