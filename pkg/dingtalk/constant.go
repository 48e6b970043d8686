package dingtalk

import "time"

const (
	// DefaultGateway is the robot send endpoint.
	DefaultGateway = "https://oapi.dingtalk.com/robot/send"

	DefaultTimeout = 10 * time.Second
	UserAgent      = "Robot-Notifier/1.0"

	maxResponseBody = 64 << 10
)

// Message types accepted by the robot endpoint.
const (
	MsgTypeText     = "text"
	MsgTypeMarkdown = "markdown"
)
