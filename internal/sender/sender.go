package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sellerdesk/pddcs/internal/account"
	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/httpx"
)

const (
	operatorRole       = "mall_cs"
	errCodeSendBlocked = 10002
)

// APIError is a send rejected by the platform with a named error code,
// distinct from a plain HTTP failure.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("send rejected: %d %s", e.Code, e.Msg)
}

// Sender submits operator replies. Each Sender carries its own transport
// with its own cookie copy, so a slow retry on one send never blocks an
// unrelated call.
type Sender struct {
	endpoint string
	headers  map[string]string
	cookies  httpx.Cookies
}

func NewSender(cfg *config.Config, a *account.Account) *Sender {
	return &Sender{
		endpoint: cfg.Endpoints.SendMessage,
		headers:  cfg.Headers.Default,
		cookies:  a.Cookies.Clone(),
	}
}

// SendText submits one text reply to a buyer. A nil document after the
// transport's retries counts as a failed send.
func (s *Sender) SendText(ctx context.Context, recipientUID, content string) error {
	payload := map[string]any{
		"data": map[string]any{
			"cmd":        "send_message",
			"request_id": strings.ReplaceAll(uuid.NewString(), "-", ""),
			"message": map[string]any{
				"to":           map[string]any{"role": "user", "uid": recipientUID},
				"from":         map[string]any{"role": operatorRole},
				"content":      content,
				"msg_id":       nil,
				"type":         0,
				"is_aut":       0,
				"manual_reply": 1,
			},
		},
		"client": "WEB",
	}

	client := httpx.NewClient(s.headers, s.cookies)
	doc, err := client.PostJSON(ctx, s.endpoint, payload)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("send message: empty response")
	}

	var body struct {
		Success bool `json:"success"`
		Result  struct {
			ErrorCode int    `json:"error_code"`
			Error     string `json:"error"`
		} `json:"result"`
	}
	if err := json.Unmarshal(doc, &body); err != nil {
		return fmt.Errorf("send message: decode response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("send message: %s", strings.TrimSpace(string(doc)))
	}
	if body.Result.ErrorCode == errCodeSendBlocked {
		msg := body.Result.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &APIError{Code: body.Result.ErrorCode, Msg: msg}
	}
	return nil
}
