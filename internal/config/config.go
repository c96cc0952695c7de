package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultUserInfoURL    = "https://mms.pinduoduo.com/janus/api/new/userinfo"
	DefaultShopInfoURL    = "https://mms.pinduoduo.com/earth/api/merchant/queryMerchantInfoByMallId"
	DefaultTokenURL       = "https://mms.pinduoduo.com/chats/getToken"
	DefaultSendMessageURL = "https://mms.pinduoduo.com/plateau/chat/send_message"
	DefaultStreamURL      = "wss://m-ws.pinduoduo.com/"

	DefaultStreamVersion  = "202506091557"
	DefaultPingSeconds    = 20
	DefaultRequestTimeout = 30

	DefaultHost = "127.0.0.1"
	DefaultPort = 18791

	DefaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	Endpoints EndpointsConfig `json:"endpoints"`
	Stream    StreamConfig    `json:"stream"`
	Headers   HeadersConfig   `json:"headers"`
	Hours     HoursConfig     `json:"businessHours"`
	Replier   ReplierConfig   `json:"replier"`
	Gateway   GatewayConfig   `json:"gateway"`
}

type EndpointsConfig struct {
	UserInfo    string `json:"userInfo"`
	ShopInfo    string `json:"shopInfo"`
	Token       string `json:"token"`
	SendMessage string `json:"sendMessage"`
}

type StreamConfig struct {
	URL          string `json:"url"`
	Version      string `json:"version"`
	PingInterval int    `json:"pingIntervalSeconds"`
}

type HeadersConfig struct {
	Default map[string]string `json:"default"`
}

type HoursConfig struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReplierConfig selects how replies are produced. Mode "console" prompts
// the operator on stdin; mode "openai" asks the model for a suggestion.
type ReplierConfig struct {
	Mode    string `json:"mode,omitempty"`
	APIKey  string `json:"apiKey,omitempty"`
	BaseURL string `json:"baseUrl,omitempty"`
	Model   string `json:"model,omitempty"`
}

type GatewayConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Endpoints: EndpointsConfig{
			UserInfo:    DefaultUserInfoURL,
			ShopInfo:    DefaultShopInfoURL,
			Token:       DefaultTokenURL,
			SendMessage: DefaultSendMessageURL,
		},
		Stream: StreamConfig{
			URL:          DefaultStreamURL,
			Version:      DefaultStreamVersion,
			PingInterval: DefaultPingSeconds,
		},
		Headers: HeadersConfig{
			Default: map[string]string{
				"User-Agent":   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
				"Accept":       "application/json, text/plain, */*",
				"Origin":       "https://mms.pinduoduo.com",
				"Referer":      "https://mms.pinduoduo.com/",
				"Content-Type": "application/json",
			},
		},
		Hours: HoursConfig{
			Start: "09:00",
			End:   "23:00",
		},
		Replier: ReplierConfig{
			Mode: "console",
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Host:    DefaultHost,
			Port:    DefaultPort,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".pddcs")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom reads path over the defaults. A missing file is not an
// error; the defaults are returned as-is.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory when needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
