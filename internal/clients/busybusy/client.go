// Package busybusy is the transport client for the BusyBusy GraphQL API. It
// owns request/response plumbing only; query documents and pagination live
// with the services that use them.
package busybusy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sheetbridge/busybusy-export/internal/logger"
)

const defaultBaseURL = "https://graphql.busybusy.io/"

// Client executes one GraphQL query and decodes data.<resultKey> into out.
// The caller's API key is passed through per request; the client holds no
// credentials of its own.
type Client interface {
	Query(ctx context.Context, apiKey string, req Request, resultKey string, out any) error
}

// Request is the GraphQL wire envelope.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("BUSYBUSY_GRAPHQL_URL")),
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &client{
		log:        log.With("client", "BusyBusyClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type responseEnvelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *client) Query(ctx context.Context, apiKey string, req Request, resultKey string, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("key-authorization", apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &TransportError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &RemoteDataError{Messages: []string{fmt.Sprintf("undecodable response: %v", err)}}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msg := e.Message
			if msg == "" {
				msg = "unknown error"
			}
			messages = append(messages, msg)
		}
		return &RemoteDataError{Messages: messages}
	}

	result, ok := envelope.Data[resultKey]
	if !ok || string(result) == "null" {
		c.log.Warn("result key absent from response", "result_key", resultKey)
		return nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return &RemoteDataError{Messages: []string{fmt.Sprintf("undecodable %s payload: %v", resultKey, err)}}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
