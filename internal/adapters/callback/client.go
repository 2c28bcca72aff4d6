// Package callback reports authorized payments to the system that owns the
// referenced documents and relays its redirect choice.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/config"
)

type authorizedEvent struct {
	Doctype string `json:"reference_doctype"`
	Docname string `json:"reference_docname"`
	Status  string `json:"status"`
}

type redirectResponse struct {
	RedirectTo string `json:"redirect_to"`
}

type HTTPNotifier struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPNotifier(cfg config.CallbackConfig, logger *slog.Logger) *HTTPNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultCallbackTimeout
	}
	return &HTTPNotifier{
		url:   cfg.URL,
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// OnPaymentAuthorized posts the event and returns the redirect the document
// system asks for. An empty redirect means it has no preference.
func (n *HTTPNotifier) OnPaymentAuthorized(ctx context.Context, doctype, docname, status string) (string, error) {
	body, err := json.Marshal(authorizedEvent{Doctype: doctype, Docname: docname, Status: status})
	if err != nil {
		return "", fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return "", nil
	}

	var out redirectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error decoding json response: %w", err)
	}

	n.logger.Info("reference document notified",
		"reference_doctype", doctype,
		"reference_docname", docname,
		"redirect_to", out.RedirectTo)
	return out.RedirectTo, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed errorResponse
	message := string(raw)
	if err := json.Unmarshal(raw, &parsed); err == nil && (parsed.Message != "" || parsed.Err != "") {
		message = parsed.Message
		if message == "" {
			message = parsed.Err
		}
	}
	return &CallbackError{Message: message, StatusCode: resp.StatusCode}
}
