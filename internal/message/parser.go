package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

const operatorRole = "mall_cs"

// Parse classifies one reassembled websocket payload. A nil error means a
// valid event; otherwise the frame must be dropped and the error logged as
// a warning. Parse never panics on untrusted input and has no side effects.
func Parse(shopID string, payload []byte) (*UserMessage, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("unparseable frame: %w", err)
	}

	response, ok := getString(root, "response")
	if !ok {
		return nil, fmt.Errorf("frame missing response field")
	}

	switch {
	case strings.EqualFold(response, "auth"):
		uid, _ := getString(root, "uid")
		status, _ := getString(root, "status")
		return &UserMessage{
			ShopID:  shopID,
			UserUID: uid,
			Type:    Auth,
			Text:    status,
			Raw:     json.RawMessage(payload),
		}, nil

	case strings.EqualFold(response, "mall_system_msg"):
		var text string
		if msg, ok := getObject(root, "message"); ok {
			if data, ok := msg["data"]; ok {
				text = stringify(data)
			}
		}
		return &UserMessage{
			ShopID: shopID,
			Type:   MallSystemMessage,
			Text:   text,
			Raw:    json.RawMessage(payload),
		}, nil

	case strings.EqualFold(response, "push"):
		msg, ok := getObject(root, "message")
		if !ok {
			return nil, fmt.Errorf("push frame missing message field")
		}
		return parsePush(shopID, payload, msg)

	default:
		return nil, fmt.Errorf("ignoring unknown response type: %s", response)
	}
}

func parsePush(shopID string, payload []byte, msg map[string]json.RawMessage) (*UserMessage, error) {
	from, _ := getObject(msg, "from")
	if role, ok := getString(from, "role"); ok && strings.EqualFold(role, operatorRole) {
		return nil, fmt.Errorf("ignoring own outbound message")
	}

	uid, _ := getString(from, "uid")
	nickname, _ := getString(msg, "nickname")
	timestamp, _ := getInt(msg, "time")

	msgType, ok := getInt(msg, "type")
	if !ok {
		msgType = -1
	}

	var (
		contextType ContextType
		text        string
	)

	switch msgType {
	case 0:
		subType, ok := getInt(msg, "sub_type")
		if !ok {
			subType = -1
		}
		switch subType {
		case 1:
			contextType = OrderInfo
			text = stringifyField(msg, "info")
		case 0:
			contextType = GoodsInquiry
			text = stringifyField(msg, "info")
		default:
			contextType = Text
			text, _ = getString(msg, "content")
		}
	case 1:
		contextType = Image
		text, _ = getString(msg, "content")
	case 14:
		contextType = Video
		text, _ = getString(msg, "content")
	case 5:
		contextType = Emotion
		text = stringifyField(msg, "info")
	case 64:
		contextType = GoodsSpec
		text = stringifyField(msg, "info")
	case 24:
		contextType = Transfer
		text = stringifyField(msg, "info")
	case 1002:
		contextType = Withdraw
		text = stringifyField(msg, "info")
	default:
		contextType = SystemStatus
		text = fmt.Sprintf("unsupported message type: %d", msgType)
	}

	return &UserMessage{
		ShopID:    shopID,
		UserUID:   uid,
		Nickname:  nickname,
		Type:      contextType,
		Text:      text,
		Raw:       json.RawMessage(payload),
		Timestamp: timestamp,
	}, nil
}

func getString(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// getInt reads key only when it holds a JSON number. Non-numeric values
// are treated as absent, matching how the upstream protocol is probed.
func getInt(obj map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

func getObject(obj map[string]json.RawMessage, key string) (map[string]json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, false
	}
	return nested, true
}

// stringify renders a field's full JSON value as text. Structured values
// (order info, goods specs) keep their nested form; JSON strings are
// unquoted.
func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func stringifyField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	return stringify(raw)
}
