package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned by clients whose keys are absent.
var ErrNotConfigured = errors.New("integration not configured")

// APIError is a non-2xx answer from an external API.
type APIError struct {
	Service string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Service, e.Status, e.Message)
}

// IsClientError reports whether err is a 4xx APIError.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// doJSON sends body as JSON and decodes a 2xx answer into out. Non-2xx
// answers become an *APIError carrying the raw body.
func doJSON(ctx context.Context, client *http.Client, service, method, url string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", service, err)
	}

	if resp.StatusCode >= 300 {
		return &APIError{Service: service, Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s decode: %w", service, err)
	}
	return nil
}

// errorMessage pulls the human readable part out of the error envelopes
// used by the hosted services.
func errorMessage(raw []byte) string {
	var env struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            any    `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case env.ErrorDescription != "":
			return env.ErrorDescription
		case env.Msg != "":
			return env.Msg
		case env.Message != "":
			return env.Message
		}
		if s, ok := env.Error.(string); ok && s != "" {
			return s
		}
	}
	return string(raw)
}
