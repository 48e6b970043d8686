package robot

import (
	"time"

	"robot-notifier/pkg/dingtalk"
)

// Kind is the wire message type.
type Kind string

const (
	KindText     Kind = dingtalk.MsgTypeText
	KindMarkdown Kind = dingtalk.MsgTypeMarkdown
)

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindText || k == KindMarkdown
}

// Titles used for each operation.
const (
	TitleText      = "Text"
	TitleMarkdown  = "Markdown"
	TitleNotice    = "Notice"
	TitleException = "Exception"
)

// Credential identifies one webhook endpoint of a channel.
type Credential struct {
	Token  string
	Secret string
}

// Channel is the resolved, immutable configuration of a logical robot.
type Channel struct {
	// Key is the registry key the channel was requested by.
	Key     string
	Name    string
	Enabled bool
	// ContentCooldown suppresses identical content for this long. Zero
	// disables content dedup.
	ContentCooldown time.Duration
	Credentials     []Credential
}

// At selects who gets mentioned. The first non-empty field wins, in the
// order Mobiles, UserIDs, All.
type At struct {
	Mobiles []string `json:"mobiles,omitempty"`
	UserIDs []string `json:"user_ids,omitempty"`
	All     bool     `json:"all,omitempty"`
}

// RequestMeta describes the inbound request a message was raised from.
type RequestMeta struct {
	Method   string
	URL      string
	ClientIP string
	Params   string
	Headers  map[string]string
}

// Enrichment is the caller-supplied context attached to formatted messages.
type Enrichment struct {
	TraceID string
	// Request is nil when the message was not raised while serving a request.
	Request *RequestMeta
}

// SubmitInput is a pre-formatted message.
type SubmitInput struct {
	Channel string
	Kind    Kind
	// Title defaults to the kind's title.
	Title string
	Body  string
	At    *At
}

// TextInput is a plain text message.
type TextInput struct {
	Channel    string
	Text       string
	At         *At
	Enrichment Enrichment
}

// MarkdownInput is a markdown message.
type MarkdownInput struct {
	Channel    string
	Markdown   string
	At         *At
	Enrichment Enrichment
}

// NoticeInput is a formatted notice with optional structured data.
type NoticeInput struct {
	Channel    string
	Notice     string
	Data       map[string]any
	At         *At
	Enrichment Enrichment
}

// ExceptionInput is a formatted error report.
type ExceptionInput struct {
	Channel    string
	Err        error
	Data       map[string]any
	At         *At
	Enrichment Enrichment
}

// Stats are process-lifetime dispatcher counters.
type Stats struct {
	Accepted  int64  `json:"accepted"`
	Dropped   int64  `json:"dropped"`
	Delivered int64  `json:"delivered"`
	Failed    int64  `json:"failed"`
	Requeued  int64  `json:"requeued"`
	Pending   int64  `json:"pending"`
	StoreMode string `json:"store_mode"`
}
