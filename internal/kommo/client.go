// Package kommo provides the HTTP client for the Kommo CRM API (v4).
// It is the only component that talks to the CRM; callers consume it through
// narrow interfaces declared on their side.
package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kommosync/platform/config"
	"kommosync/platform/logger"

	"github.com/shopspring/decimal"
)

// Client is the HTTP client for the Kommo API. A single long-lived instance
// is constructed in main and injected wherever CRM access is needed.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	log         *logger.Logger
}

// New creates a new Kommo API client.
func New(cfg config.KommoConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     cfg.GetKommoBaseURL(),
		accessToken: cfg.GetKommoAccessToken(),
		log:         log,
	}
}

// CreateLead creates a lead and returns its id. Kommo replies with the
// created leads embedded in the response; an empty list yields id 0, the
// "unlinked" sentinel, which is not an error.
func (c *Client) CreateLead(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	payload := []addLeadRequest{{Name: name, Price: json.Number(price.String())}}

	var resp leadsResponse
	if err := c.send(ctx, http.MethodPost, "/leads", payload, &resp); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}

	if len(resp.Embedded.Leads) == 0 {
		return 0, nil
	}
	return resp.Embedded.Leads[0].ID, nil
}

// UpdateLead patches an existing lead. Nil fields are left untouched remotely.
func (c *Client) UpdateLead(ctx context.Context, leadID int64, name *string, price *decimal.Decimal) error {
	if leadID <= 0 {
		return fmt.Errorf("update lead: lead id must be positive, got %d", leadID)
	}

	req := updateLeadRequest{ID: leadID, Name: name}
	if price != nil {
		n := json.Number(price.String())
		req.Price = &n
	}

	if err := c.send(ctx, http.MethodPatch, "/leads", []updateLeadRequest{req}, nil); err != nil {
		return fmt.Errorf("update lead %d: %w", leadID, err)
	}
	return nil
}

// ListPipelineStatuses fetches all statuses belonging to pipelines flagged
// is_main. Statuses of other pipelines are not usable for order-status
// mapping and are dropped here.
func (c *Client) ListPipelineStatuses(ctx context.Context) ([]PipelineStatus, error) {
	var resp pipelinesResponse
	if err := c.send(ctx, http.MethodGet, "/leads/pipelines", nil, &resp); err != nil {
		return nil, fmt.Errorf("list pipeline statuses: %w", err)
	}

	var statuses []PipelineStatus
	for _, p := range resp.Embedded.Pipelines {
		if !p.IsMain {
			continue
		}
		for _, s := range p.Embedded.Statuses {
			statuses = append(statuses, PipelineStatus{
				ID:         s.ID,
				Name:       s.Name,
				PipelineID: s.PipelineID,
				IsMain:     true,
			})
		}
	}
	return statuses, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.CRMError(method+" "+path, err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.CRMError(method+" "+path, fmt.Errorf("status %d", resp.StatusCode))
		return fmt.Errorf("kommo api: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
