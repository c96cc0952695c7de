package message

import "encoding/json"

// ContextType is the closed set of inbound event kinds. The parser is the
// only constructor of UserMessage values, so a queued event always carries
// one of these.
type ContextType int

const (
	Text ContextType = iota
	Image
	Video
	Emotion
	Withdraw
	GoodsInquiry
	GoodsSpec
	OrderInfo
	MallSystemMessage
	Auth
	Transfer
	SystemStatus
	MallCs
)

var contextTypeNames = map[ContextType]string{
	Text:              "text",
	Image:             "image",
	Video:             "video",
	Emotion:           "emotion",
	Withdraw:          "withdraw",
	GoodsInquiry:      "goods_inquiry",
	GoodsSpec:         "goods_spec",
	OrderInfo:         "order_info",
	MallSystemMessage: "mall_system_msg",
	Auth:              "auth",
	Transfer:          "transfer",
	SystemStatus:      "system_status",
	MallCs:            "mall_cs",
}

func (t ContextType) String() string {
	if name, ok := contextTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ReplyEligible reports whether an operator reply may be submitted for
// events of this kind.
func (t ContextType) ReplyEligible() bool {
	return t == Text || t == GoodsInquiry || t == OrderInfo
}

// Informational events are displayed but never prompt for a reply.
func (t ContextType) Informational() bool {
	return t == SystemStatus || t == MallSystemMessage
}

// UserMessage is one classified inbound event. Values are immutable after
// the parser builds them; Raw keeps the original payload for auditing.
type UserMessage struct {
	ShopID    string
	UserUID   string
	Nickname  string
	Type      ContextType
	Text      string
	Raw       json.RawMessage
	Timestamp int64 // epoch milliseconds, 0 when the frame carried none
}
