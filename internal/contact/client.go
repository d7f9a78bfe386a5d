package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Errors reported by Client.Submit for the endpoint's failure statuses.
var (
	ErrMessageRequired  = errors.New("contact: message is required")
	ErrMethodNotAllowed = errors.New("contact: method not allowed")
	ErrRelayFailed      = errors.New("contact: relay failed")
	ErrUnexpectedStatus = errors.New("contact: unexpected status")
)

// Rejected reports whether err is an answer from the endpoint rather than a
// transport failure.
func Rejected(err error) bool {
	return errors.Is(err, ErrMessageRequired) ||
		errors.Is(err, ErrMethodNotAllowed) ||
		errors.Is(err, ErrRelayFailed) ||
		errors.Is(err, ErrUnexpectedStatus)
}

// Client posts contact-form submissions to an endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient returns a client for endpoint using http.DefaultClient when hc
// is nil.
func NewClient(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{Endpoint: endpoint, HTTP: hc}
}

// Submit sends one submission. A nil error means the endpoint answered 200.
func (c *Client) Submit(ctx context.Context, name, message string) error {
	if message == "" {
		return ErrMessageRequired
	}
	payload, err := json.Marshal(Request{Name: name, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return ErrMessageRequired
	case http.StatusMethodNotAllowed:
		return ErrMethodNotAllowed
	case http.StatusInternalServerError:
		return ErrRelayFailed
	}
	return fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
}
