package account

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/httpx"
)

// Service is the session provider: three sequential round-trips that turn
// an operator cookie set into identity, shop info and a streaming token.
// Failures here are terminal to startup; no retry beyond what the request
// transport already does.
type Service struct {
	endpoints config.EndpointsConfig
	headers   map[string]string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		endpoints: cfg.Endpoints,
		headers:   cfg.Headers.Default,
	}
}

type successEnvelope struct {
	Success  bool            `json:"success"`
	ErrorMsg string          `json:"errorMsg"`
	Result   json.RawMessage `json:"result"`
}

func (s *Service) client(a *Account) *httpx.Client {
	return httpx.NewClient(s.headers, a.Cookies)
}

// UserInfo resolves the operator identity and the shop id bound to the
// account cookies.
func (s *Service) UserInfo(ctx context.Context, a *Account) (userID, username, mallID string, err error) {
	doc, err := s.client(a).PostRaw(ctx, s.endpoints.UserInfo, "")
	if err != nil {
		return "", "", "", fmt.Errorf("fetch user info: %w", err)
	}
	result, err := unwrapResult(doc, "fetch user info")
	if err != nil {
		return "", "", "", err
	}

	var body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		MallID   string `json:"mall_id"`
	}
	if err := json.Unmarshal(result, &body); err != nil {
		return "", "", "", fmt.Errorf("decode user info result: %w", err)
	}
	if body.ID == "" {
		return "", "", "", fmt.Errorf("user info response missing id")
	}
	return body.ID, body.Username, body.MallID, nil
}

// ShopInfo resolves the shop display details.
func (s *Service) ShopInfo(ctx context.Context, a *Account) (Shop, error) {
	doc, err := s.client(a).PostJSON(ctx, s.endpoints.ShopInfo, map[string]any{})
	if err != nil {
		return Shop{}, fmt.Errorf("fetch shop info: %w", err)
	}
	result, err := unwrapResult(doc, "fetch shop info")
	if err != nil {
		return Shop{}, err
	}

	var body struct {
		MallID   string `json:"mallId"`
		MallName string `json:"mallName"`
		MallLogo string `json:"mallLogo"`
	}
	if err := json.Unmarshal(result, &body); err != nil {
		return Shop{}, fmt.Errorf("decode shop info result: %w", err)
	}
	if body.MallID == "" {
		return Shop{}, fmt.Errorf("shop info response missing mallId")
	}
	return Shop{ShopID: body.MallID, Name: body.MallName, Logo: body.MallLogo}, nil
}

// Token fetches the short-lived streaming token. Some deployments return
// it at the top level, others nested under result.
func (s *Service) Token(ctx context.Context, a *Account) (string, error) {
	doc, err := s.client(a).PostJSON(ctx, s.endpoints.Token, map[string]any{"version": "3"})
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	if doc == nil {
		return "", fmt.Errorf("fetch token: empty response")
	}

	var body struct {
		Token  string `json:"token"`
		Result struct {
			Token string `json:"token"`
		} `json:"result"`
	}
	if err := json.Unmarshal(doc, &body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if body.Token != "" {
		return body.Token, nil
	}
	if body.Result.Token != "" {
		return body.Result.Token, nil
	}
	return "", fmt.Errorf("token response missing token field")
}

// Login runs the full three-step session setup and fills the account in
// place, returning the streaming token.
func (s *Service) Login(ctx context.Context, a *Account) (string, error) {
	userID, username, mallID, err := s.UserInfo(ctx, a)
	if err != nil {
		return "", err
	}
	a.UserID = userID
	if username != "" {
		a.Username = username
	}
	a.ShopID = mallID

	shop, err := s.ShopInfo(ctx, a)
	if err != nil {
		return "", err
	}
	a.ShopID = shop.ShopID
	a.ShopName = shop.Name
	a.MallLogo = shop.Logo

	return s.Token(ctx, a)
}

func unwrapResult(doc json.RawMessage, op string) (json.RawMessage, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s: empty response", op)
	}
	var envelope successEnvelope
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if !envelope.Success {
		msg := envelope.ErrorMsg
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%s: %s", op, msg)
	}
	return envelope.Result, nil
}
