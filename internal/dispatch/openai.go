package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/message"
)

const replySystemPrompt = "You are a customer-service assistant for an online shop. " +
	"Write one short, polite reply to the buyer message below, in the buyer's language. " +
	"Reply with the message text only. If no reply is appropriate, reply with an empty string."

// OpenAIReplier auto-suggests replies instead of prompting the operator.
// A model failure degrades to a skip so the loop keeps running.
type OpenAIReplier struct {
	client *openai.Client
	model  string
}

func NewOpenAIReplier(cfg config.ReplierConfig) (*OpenAIReplier, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai replier requires an api key")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	return &OpenAIReplier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (r *OpenAIReplier) Reply(ctx context.Context, msg *message.UserMessage) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: replySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: formatForModel(msg)},
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("[dispatch] openai reply failed, skipping: %v", err)
		return "", nil
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (r *OpenAIReplier) Ack(ctx context.Context, msg *message.UserMessage) error {
	return nil
}

func formatForModel(msg *message.UserMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "message kind: %s\n", msg.Type)
	if msg.Nickname != "" {
		fmt.Fprintf(&sb, "buyer: %s\n", msg.Nickname)
	}
	fmt.Fprintf(&sb, "message: %s\n", msg.Text)
	return sb.String()
}
