package dingtalk

import (
	"net/http"
	"time"
)

// TextBody is the "text" section of a text message.
type TextBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MarkdownBody is the "markdown" section of a markdown message.
type MarkdownBody struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// At lists who should be mentioned. Only one of the fields is ever set.
type At struct {
	AtMobiles []string `json:"atMobiles,omitempty"`
	AtUserIDs []string `json:"atUserIds,omitempty"`
	IsAtAll   bool     `json:"isAtAll,omitempty"`
}

// Message is the JSON body posted to the robot.
type Message struct {
	MsgType  string        `json:"msgtype"`
	Text     *TextBody     `json:"text,omitempty"`
	Markdown *MarkdownBody `json:"markdown,omitempty"`
	At       *At           `json:"at,omitempty"`
}

// SendRequest carries one signed delivery.
type SendRequest struct {
	Token     string
	Timestamp int64
	Sign      string
	Message   Message
}

// Response is the robot's reply. ErrCode is nil when the field was absent.
type Response struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Config contains configuration for the client.
type Config struct {
	Gateway string
	Timeout time.Duration
}

type clientImpl struct {
	gateway string
	client  *http.Client
}
