package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sellerdesk/pddcs/internal/bus"
	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/message"
)

const operatorRole = "mall_cs"

// Stats are live counters for the ops endpoint.
type Stats struct {
	Received   int64 `json:"received"`
	Classified int64 `json:"classified"`
	Skipped    int64 `json:"skipped"`
}

// Client owns one long-lived websocket connection. It reassembles frames
// into logical payloads, classifies each one and pushes events onto the
// queue. The loop ends on cancellation, a remote close frame or a
// transport error; reconnecting is the caller's business.
type Client struct {
	baseURL      string
	version      string
	pingInterval time.Duration
	queue        *bus.Queue

	received   atomic.Int64
	classified atomic.Int64
	skipped    atomic.Int64
}

func NewClient(cfg config.StreamConfig, queue *bus.Queue) *Client {
	interval := time.Duration(cfg.PingInterval) * time.Second
	if interval <= 0 {
		interval = config.DefaultPingSeconds * time.Second
	}
	return &Client{
		baseURL:      cfg.URL,
		version:      cfg.Version,
		pingInterval: interval,
		queue:        queue,
	}
}

func (c *Client) Stats() Stats {
	return Stats{
		Received:   c.received.Load(),
		Classified: c.classified.Load(),
		Skipped:    c.skipped.Load(),
	}
}

func (c *Client) dialURL(accessToken string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}
	query := url.Values{}
	query.Set("access_token", accessToken)
	query.Set("role", operatorRole)
	query.Set("client", "web")
	query.Set("version", c.version)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// Run connects and receives until the connection ends. A remote close or
// ctx cancellation returns nil; anything else returns the transport error.
func (c *Client) Run(ctx context.Context, shopID, accessToken string) error {
	target, err := c.dialURL(accessToken)
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.CloseNow()

	// Payloads can be large (order info blobs).
	conn.SetReadLimit(1 << 20)

	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go c.pingLoop(pingCtx, conn)

	log.Printf("[ws] connected, waiting for messages")

	for {
		payload, err := readPayload(ctx, conn)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				log.Printf("[ws] remote closed the connection")
				conn.Close(websocket.StatusNormalClosure, "closing")
				return nil
			}
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "closing")
				return nil
			}
			return fmt.Errorf("receive frame: %w", err)
		}

		c.received.Add(1)
		msg, err := message.Parse(shopID, payload)
		if err != nil {
			c.skipped.Add(1)
			log.Printf("[ws] %v", err)
			continue
		}
		c.classified.Add(1)
		c.queue.Push(msg)
	}
}

// readPayload drains one logical message. The transport may split a
// payload across several frames; the message reader hands them back as a
// single stream, and decoding anything short of the full payload would
// corrupt classification.
func readPayload(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	_, r, err := conn.Reader(ctx)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Printf("[ws] ping failed: %v", err)
				}
				return
			}
		}
	}
}
