package dingtalk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
)

// Sign computes the query-escaped request signature for a millisecond
// timestamp: base64(HMAC-SHA256(secret, "{timestamp}\n{secret}")).
func Sign(secret string, timestamp int64) string {
	payload := strconv.FormatInt(timestamp, 10) + "\n" + secret
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
