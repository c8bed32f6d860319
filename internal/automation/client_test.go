package automation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

func TestMailboxScan_SendsCredentialAndUser(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewMailboxScanClient(srv.URL, time.Second)
	if err := c.Scan(context.Background(), "tok-123", "u1"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got["accessToken"] != "tok-123" || got["userId"] != "u1" {
		t.Fatalf("payload = %v", got)
	}
}

func TestMailboxScan_NonSuccessCarriesServiceReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"gmail quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewMailboxScanClient(srv.URL, time.Second)
	err := c.Scan(context.Background(), "tok", "u1")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want *ServiceError", err)
	}
	if svcErr.Status != http.StatusBadGateway || svcErr.Reason != "gmail quota exceeded" {
		t.Fatalf("service error = %+v", svcErr)
	}
}

func TestMailboxScan_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewMailboxScanClient(srv.URL, time.Second)
	err := c.Scan(context.Background(), "tok", "u1")

	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestApplyBot_DispatchWireFormat(t *testing.T) {
	var got struct {
		Filters struct {
			Keywords      []string `json:"keywords"`
			Location      string   `json:"location"`
			Period        string   `json:"period"`
			EasyApplyOnly bool     `json:"easyApplyOnly"`
		} `json:"filters"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"message":"Auto-Apply started"}`))
	}))
	defer srv.Close()

	c := NewApplyBotClient(srv.URL, time.Second)
	msg, err := c.Dispatch(context.Background(), domain.AutomationFilter{
		Keywords:      []string{"go", "backend"},
		Location:      "NYC",
		RecencyWindow: domain.RecencyLast24h,
		EasyApplyOnly: true,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if msg != "Auto-Apply started" {
		t.Errorf("message = %q", msg)
	}
	if got.Filters.Period != "r86400" {
		t.Errorf("period = %q, want r86400", got.Filters.Period)
	}
	if got.Filters.Location != "NYC" || len(got.Filters.Keywords) != 2 || !got.Filters.EasyApplyOnly {
		t.Errorf("filters = %+v", got.Filters)
	}
}

func TestApplyBot_SuccessWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewApplyBotClient(srv.URL, time.Second)
	msg, err := c.Dispatch(context.Background(), domain.AutomationFilter{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if msg != "" {
		t.Errorf("message = %q, want empty", msg)
	}
}
