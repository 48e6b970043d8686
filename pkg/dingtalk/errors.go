package dingtalk

import (
	"errors"
	"fmt"
)

var (
	ErrTokenRequired     = errors.New("dingtalk: access token is required")
	ErrInvalidMessage    = errors.New("dingtalk: message has no text or markdown body")
	ErrMalformedResponse = errors.New("dingtalk: malformed response")
)

// SendError is returned when the robot answers with a non-zero errcode.
type SendError struct {
	ErrCode int
	ErrMsg  string
	Body    string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("dingtalk: send failed: errcode=%d errmsg=%s", e.ErrCode, e.ErrMsg)
}

// IsSendError reports whether err is a SendError.
func IsSendError(err error) bool {
	var se *SendError
	return errors.As(err, &se)
}
