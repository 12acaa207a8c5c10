package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const customersPath = "/api/customers"

// fallbackSubmitMessage is used when a failed create carries no message field.
const fallbackSubmitMessage = "Failed to add customer"

// Customer is the wire representation of a customer. An empty BusinessName is
// encoded as an absent key, never as "".
type Customer struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName,omitempty"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches the full customer collection in insertion order. A non-success
// response with a JSON body surfaces as an *APIError; an unparseable body as a
// *MalformedResponseError; a transport failure as a *RequestError.
func (c *Client) List(ctx context.Context) ([]Customer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+customersPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
		}
		return nil, &apiErr
	}

	var customers []Customer
	if err := json.Unmarshal(body, &customers); err != nil {
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
	}
	return customers, nil
}

// Create submits a new customer as a JSON body. The response body of a
// successful create is not consumed beyond its status. Any failure surfaces as
// a *SubmissionError with the server's message when one is present.
func (c *Client) Create(ctx context.Context, customer Customer) error {
	payload, err := json.Marshal(customer)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+customersPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmissionError{Message: fallbackSubmitMessage, Err: err}
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	var failure struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Message != "" {
		return &SubmissionError{Message: failure.Message}
	}
	return &SubmissionError{Message: fallbackSubmitMessage}
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
