package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// SendSMSParams represents the parameters for sending a single SMS message.
type SendSMSParams struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Validate checks the minimal requirements for a send.
func (p SendSMSParams) Validate() error {
	if p.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidParams)
	}
	if p.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidParams)
	}
	return nil
}

// SMSSender sends text messages and returns the gateway-assigned message id
// when one is available. An empty id with a nil error is still a success.
type SMSSender interface {
	SendSMS(ctx context.Context, params SendSMSParams) (messageID string, err error)
}

// Client is an SMSSender talking to a JSON HTTP gateway. The wire format is
// the lowest common denominator shared by commodity SMS gateways: a POST with
// a bearer token, returning {"message_id": "...", "status": "..."}.
type Client struct {
	config     Config
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates an SMS gateway client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: GatewayURL and APIKey are required", ErrInvalidConfig)
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type gatewayRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// SendSMS submits the message to the gateway.
func (c *Client) SendSMS(ctx context.Context, params SendSMSParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(gatewayRequest{
		From:    c.config.SenderID,
		To:      params.Phone,
		Message: params.Message,
	})
	if err != nil {
		return "", errors.Join(ErrFailedToSendSMS, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Join(ErrFailedToSendSMS, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(ErrFailedToSendSMS, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", errors.Join(ErrFailedToSendSMS, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gateway returned %d: %s", ErrFailedToSendSMS, resp.StatusCode, raw)
	}

	var gw gatewayResponse
	if err := json.Unmarshal(raw, &gw); err != nil {
		// A 2xx with an unparseable body is still a positive acknowledgement;
		// the gateway just didn't hand back a usable message id.
		return "", nil
	}
	if gw.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrFailedToSendSMS, gw.Error)
	}

	return gw.MessageID, nil
}
