// Package automation holds the HTTP clients for the two external automation
// backends: the mailbox-scan service and the apply-bot service. Both are
// opaque POST endpoints: any 2xx is success (with an optional JSON body),
// any other status is a rejection that may carry {"error": "..."}.
// Dispatched calls are not cancellable mid-flight beyond the client timeout;
// callers fire them and observe the terminal response.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

// ServiceError reports a non-success response from an automation backend,
// carrying the service's own reason when it provided one.
type ServiceError struct {
	Service string
	Status  int
	Reason  string
}

func (e *ServiceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s rejected request (HTTP %d): %s", e.Service, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s rejected request (HTTP %d)", e.Service, e.Status)
}

// TransportError reports a network-level failure reaching a backend.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// client is the shared POST-JSON plumbing for both backends.
type client struct {
	service    string
	url        string
	httpClient *http.Client
}

func newClient(service, url string, timeout time.Duration) client {
	return client{
		service:    service,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// post sends body as JSON and returns the decoded success body (which may
// be empty). Non-2xx responses become *ServiceError, network faults become
// *TransportError.
func (c client) post(ctx context.Context, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := ""
		var fail struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &fail) == nil {
			reason = fail.Error
		}
		return nil, &ServiceError{Service: c.service, Status: resp.StatusCode, Reason: reason}
	}

	// Success bodies are optional and free-form.
	var out map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			log.Debug().Str("service", c.service).Msg("automation: ignoring non-JSON success body")
		}
	}
	return out, nil
}

// MailboxScanClient triggers the mailbox scanning workflow.
type MailboxScanClient struct {
	client
}

// NewMailboxScanClient returns a client for the mailbox-scan service at url.
func NewMailboxScanClient(url string, timeout time.Duration) *MailboxScanClient {
	return &MailboxScanClient{client: newClient("mailbox-scan service", url, timeout)}
}

// Scan asks the service to scan userID's mailbox using the given bearer
// credential. The credential is passed through verbatim, never interpreted.
func (c *MailboxScanClient) Scan(ctx context.Context, credential, userID string) error {
	payload := struct {
		AccessToken string `json:"accessToken"`
		UserID      string `json:"userId"`
	}{AccessToken: credential, UserID: userID}

	_, err := c.post(ctx, payload)
	return err
}

// ApplyBotClient triggers the automated job-application workflow.
type ApplyBotClient struct {
	client
}

// NewApplyBotClient returns a client for the apply-bot service at url.
func NewApplyBotClient(url string, timeout time.Duration) *ApplyBotClient {
	return &ApplyBotClient{client: newClient("apply-bot service", url, timeout)}
}

// Dispatch sends the normalized filter to the apply bot. On success it
// returns the service's optional human-readable message.
func (c *ApplyBotClient) Dispatch(ctx context.Context, f domain.AutomationFilter) (string, error) {
	payload := struct {
		Filters applyFilters `json:"filters"`
	}{Filters: applyFilters{
		Keywords:      f.Keywords,
		Location:      f.Location,
		Period:        f.RecencyWindow.PeriodCode(),
		EasyApplyOnly: f.EasyApplyOnly,
	}}

	body, err := c.post(ctx, payload)
	if err != nil {
		return "", err
	}
	if msg, ok := body["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}

// applyFilters is the wire shape the apply bot expects; the recency window
// travels as a Gmail-style period code ("", "r86400", "r604800").
type applyFilters struct {
	Keywords      []string `json:"keywords"`
	Location      string   `json:"location"`
	Period        string   `json:"period"`
	EasyApplyOnly bool     `json:"easyApplyOnly"`
}
