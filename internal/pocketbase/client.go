// Package pocketbase implements the client for the remote record server: a
// PocketBase-style REST API for auth, users and messages, plus an SSE
// realtime channel delivering record creation events at-least-once.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client talks to the record server. It is safe for concurrent use once
// authenticated; the auth token is only written by Login/Register/SignOut.
type Client struct {
	baseURL    string
	httpClient *http.Client

	token      string
	authRecord *userRecord
}

// New instantiates a client against the given base url.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server's base url.
func (c *Client) BaseURL() string { return c.baseURL }

// apiError is the error envelope returned by the server.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, response any) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshaling payload")
		}
		body = bytes.NewReader(payloadBytes)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", c.token)
	}

	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	if httpResponse.StatusCode >= 400 {
		serverError := &apiError{}
		if err := json.Unmarshal(responseBytes, serverError); err == nil && serverError.Message != "" {
			return errors.Errorf("server returned %d: %s", httpResponse.StatusCode, serverError.Message)
		}
		return errors.Errorf("server returned %d", httpResponse.StatusCode)
	}

	if response != nil {
		if err := json.Unmarshal(responseBytes, response); err != nil {
			return errors.Wrap(err, "unmarshaling response")
		}
	}
	return nil
}

// recordTimeLayout is the server's timestamp format.
const recordTimeLayout = "2006-01-02 15:04:05.000Z"

func parseRecordTime(value string) time.Time {
	if t, err := time.Parse(recordTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

func formatRecordTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// listResponse is the standard paginated record list envelope.
type listResponse[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

func listPath(collection string, page, perPage int, sort, filter string) string {
	path := fmt.Sprintf("/api/collections/%s/records?page=%d&perPage=%d&sort=%s", collection, page, perPage, sort)
	if filter != "" {
		path += "&filter=" + filter
	}
	return path
}
