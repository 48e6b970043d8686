package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-notifier/pkg/dingtalk"
)

func TestReadBody(t *testing.T) {
	got, err := readBody("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = readBody("-", strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readBody("-", strings.NewReader("\n"))
	assert.Error(t, err)
}

func TestParseData(t *testing.T) {
	data, err := parseData([]string{"host=db1", "query=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"host": "db1", "query": "a=b"}, data)

	data, err = parseData(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = parseData([]string{"novalue"})
	assert.Error(t, err)
}

func TestMentions(t *testing.T) {
	t.Cleanup(func() { atMobiles, atUsers, atAll = nil, nil, false })

	assert.Nil(t, mentions())

	atAll = true
	at := mentions()
	require.NotNil(t, at)
	assert.True(t, at.All)
}

func TestTextCommand(t *testing.T) {
	var (
		mu   sync.Mutex
		msgs []dingtalk.Message
	)
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var m dingtalk.Message
		_ = json.Unmarshal(raw, &m)
		mu.Lock()
		msgs = append(msgs, m)
		mu.Unlock()
		_, _ = io.WriteString(w, `{"errcode":0,"errmsg":"ok"}`)
	}))
	defer gw.Close()

	t.Setenv("ROBOT_GATEWAY", gw.URL)
	t.Setenv("ROBOT_TOKEN", "tok")
	t.Setenv("ROBOT_SECRET", "sec")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("LOG_LEVEL", "error")

	prevWait := waitFor
	waitFor = 5 * time.Second
	t.Cleanup(func() { waitFor = prevWait })

	var out bytes.Buffer
	cmd := textCmd()
	cmd.SetArgs([]string{"backup finished"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "sent\n", out.String())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Text)
	assert.True(t, strings.HasPrefix(msgs[0].Text.Content, "backup finished\n> **Trace:** "))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", strings.Repeat("k", 32))

	var out bytes.Buffer
	cmd := tokenCmd()
	cmd.SetArgs([]string{"--subject", "cron"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out.String()), "."))
}
