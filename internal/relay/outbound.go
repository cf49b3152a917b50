package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Reason says why a delivery did not go through.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonEncode    Reason = "encode"
	ReasonRequest   Reason = "request"
	ReasonTimeout   Reason = "timeout"
	ReasonTransport Reason = "transport"
	ReasonStatus    Reason = "status"
)

// Target is where a reply gets pushed.
type Target struct {
	URL   string
	Token string
}

// Payload is the body posted to a channel for a new bot reply.
type Payload struct {
	EventType string `json:"event_type"`
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
}

func NewMessage(chatID, text string) Payload {
	return Payload{EventType: "new_message", ChatID: chatID, Text: text}
}

// Result is the outcome of one delivery attempt.
type Result struct {
	Delivered  bool
	StatusCode int
	Reason     Reason
	Detail     string
}

type Client struct {
	client *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{client: &http.Client{Timeout: timeout}}
}

// Deliver posts payload to the target. Every failure is reported through the
// returned Result; Deliver never returns an error.
func (c *Client) Deliver(ctx context.Context, target Target, payload any) Result {
	b, err := json.Marshal(payload)
	if err != nil {
		return Result{Reason: ReasonEncode, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(b))
	if err != nil {
		return Result{Reason: ReasonRequest, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+target.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Result{Reason: ReasonTimeout, Detail: err.Error()}
		}
		return Result{Reason: ReasonTransport, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Result{Delivered: true, StatusCode: resp.StatusCode}
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return Result{
		StatusCode: resp.StatusCode,
		Reason:     ReasonStatus,
		Detail:     resp.Status + " body=" + string(respBody),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
