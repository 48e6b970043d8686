package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	stackerr "github.com/friendsofgo/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-notifier/config"
	"robot-notifier/internal/frequency"
	"robot-notifier/internal/ratelimit"
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/dingtalk"
	"robot-notifier/pkg/log"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type delivery struct {
	token     string
	timestamp string
	sign      string
	msg       dingtalk.Message
}

type gateway struct {
	srv *httptest.Server

	mu         sync.Mutex
	deliveries []delivery
	reply      string
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	g := &gateway{reply: `{"errcode":0,"errmsg":"ok"}`}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var msg dingtalk.Message
		_ = json.Unmarshal(raw, &msg)

		q := r.URL.Query()
		g.mu.Lock()
		g.deliveries = append(g.deliveries, delivery{
			token:     q.Get("access_token"),
			timestamp: q.Get("timestamp"),
			sign:      q.Get("sign"),
			msg:       msg,
		})
		reply := g.reply
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *gateway) setReply(reply string) {
	g.mu.Lock()
	g.reply = reply
	g.mu.Unlock()
}

func (g *gateway) received() []delivery {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]delivery(nil), g.deliveries...)
}

type fixture struct {
	uc      robot.UseCase
	gateway *gateway
	clock   *fakeClock
}

type fixtureOption func(*Config, *int)

func withBackoff(d time.Duration) fixtureOption {
	return func(c *Config, _ *int) { c.RequeueBackoff = d }
}

func withCredentialLimit(n int) fixtureOption {
	return func(_ *Config, limit *int) { *limit = n }
}

func intPtr(v int) *int { return &v }

func testChannels() map[string]config.ChannelConfig {
	return map[string]config.ChannelConfig{
		"default": {Enable: true, Name: "Default", Token: "tok", Secret: "sec"},
		"ops": {
			Enable:    true,
			Name:      "Ops",
			Frequency: intPtr(60),
			Configs: []config.CredentialConfig{
				{Token: "a", Secret: "sa"},
				{Token: "b", Secret: "sb"},
			},
		},
		"off":    {Enable: false, Name: "Off", Token: "tok", Secret: "sec"},
		"nodupe": {Enable: true, Name: "NoDupe", Frequency: intPtr(0), Token: "tok", Secret: "sec"},
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	g := newGateway(t)
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

	cfg := Config{
		AppName:       "billing",
		AppEnv:        "test",
		HostAddr:      "10.0.0.1",
		AllowHeaders:  []string{"User-Agent", "X-Tenant", "Client-Sign"},
		FilterHeaders: []string{"client-sign"},
		Now:           clock.Now,
	}
	limit := ratelimit.DefaultCredentialLimit
	for _, opt := range opts {
		opt(&cfg, &limit)
	}

	store := frequency.NewMemory(frequency.MemoryOptions{Clock: clock.Now})
	logger := log.NewNop()
	client := dingtalk.New(dingtalk.Config{Gateway: g.srv.URL, Timeout: time.Second})
	t.Cleanup(func() { _ = client.Close() })

	uc := New(logger, Deps{
		Channels:   robot.NewRegistry(logger, testChannels()),
		Content:    ratelimit.NewContentLimiter(logger, store),
		Credential: ratelimit.NewCredentialLimiter(logger, store, limit),
		Client:     client,
	}, cfg)

	return &fixture{uc: uc, gateway: g, clock: clock}
}

func waitAll(t *testing.T, uc robot.UseCase) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, uc.Wait(ctx))
}

func TestText(t *testing.T) {
	ctx := log.WithTraceID(context.Background(), "trace-1")

	t.Run("delivers a signed message", func(t *testing.T) {
		f := newFixture(t)
		ok := f.uc.Text(ctx, robot.TextInput{Text: "disk full", At: &robot.At{Mobiles: []string{"13800000000"}}})
		require.True(t, ok)
		waitAll(t, f.uc)

		got := f.gateway.received()
		require.Len(t, got, 1)
		d := got[0]
		assert.Equal(t, "tok", d.token)

		ts, err := strconv.ParseInt(d.timestamp, 10, 64)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now().UnixMilli(), ts)
		want, err := url.QueryUnescape(dingtalk.Sign("sec", ts))
		require.NoError(t, err)
		assert.Equal(t, want, d.sign)

		assert.Equal(t, dingtalk.MsgTypeText, d.msg.MsgType)
		require.NotNil(t, d.msg.Text)
		assert.Equal(t, robot.TitleText, d.msg.Text.Title)
		assert.Equal(t, "disk full\n> **Trace:** trace-1", d.msg.Text.Content)
		require.NotNil(t, d.msg.At)
		assert.Equal(t, []string{"13800000000"}, d.msg.At.AtMobiles)

		s := f.uc.Stats()
		assert.Equal(t, int64(1), s.Accepted)
		assert.Equal(t, int64(1), s.Delivered)
		assert.Equal(t, int64(0), s.Pending)
	})

	t.Run("drops repeated content within the cooldown", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, f.uc.Text(ctx, robot.TextInput{Text: "same"}))
		assert.False(t, f.uc.Text(ctx, robot.TextInput{Text: "same"}))
		waitAll(t, f.uc)

		assert.Len(t, f.gateway.received(), 1)
		assert.Equal(t, int64(1), f.uc.Stats().Dropped)

		f.clock.Advance(robot.DefaultContentCooldown)
		assert.True(t, f.uc.Text(ctx, robot.TextInput{Text: "same"}))
		waitAll(t, f.uc)
		assert.Len(t, f.gateway.received(), 2)
	})

	t.Run("zero cooldown sends every copy", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 3; i++ {
			assert.True(t, f.uc.Text(ctx, robot.TextInput{Channel: "nodupe", Text: "same"}))
		}
		waitAll(t, f.uc)
		assert.Len(t, f.gateway.received(), 3)
	})

	t.Run("disabled and unknown channels drop everything", func(t *testing.T) {
		f := newFixture(t)
		assert.False(t, f.uc.Text(ctx, robot.TextInput{Channel: "off", Text: "x"}))
		assert.False(t, f.uc.Text(ctx, robot.TextInput{Channel: "missing", Text: "x"}))
		waitAll(t, f.uc)
		assert.Empty(t, f.gateway.received())
	})

	t.Run("no trace id leaves the text untouched", func(t *testing.T) {
		f := newFixture(t)
		require.True(t, f.uc.Text(context.Background(), robot.TextInput{Text: "plain"}))
		waitAll(t, f.uc)
		got := f.gateway.received()
		require.Len(t, got, 1)
		assert.Equal(t, "plain", got[0].msg.Text.Content)
	})

	t.Run("concurrent identical calls are accepted once", func(t *testing.T) {
		f := newFixture(t)
		var accepted atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if f.uc.Text(ctx, robot.TextInput{Channel: "ops", Text: "storm"}) {
					accepted.Add(1)
				}
			}()
		}
		wg.Wait()
		waitAll(t, f.uc)

		assert.Equal(t, int64(1), accepted.Load())
		assert.Len(t, f.gateway.received(), 1)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("markdown with custom title", func(t *testing.T) {
		f := newFixture(t)
		require.True(t, f.uc.Submit(ctx, robot.SubmitInput{
			Channel: "ops",
			Kind:    robot.KindMarkdown,
			Title:   "Deploy",
			Body:    "# done",
			At:      &robot.At{UserIDs: []string{"u1"}, All: true},
		}))
		waitAll(t, f.uc)

		got := f.gateway.received()
		require.Len(t, got, 1)
		require.NotNil(t, got[0].msg.Markdown)
		assert.Equal(t, "Deploy", got[0].msg.Markdown.Title)
		assert.Equal(t, "# done", got[0].msg.Markdown.Text)
		assert.Equal(t, []string{"u1"}, got[0].msg.At.AtUserIDs)
		assert.False(t, got[0].msg.At.IsAtAll)
		assert.Contains(t, []string{"a", "b"}, got[0].token)
	})

	t.Run("text defaults its title", func(t *testing.T) {
		f := newFixture(t)
		require.True(t, f.uc.Submit(ctx, robot.SubmitInput{Kind: robot.KindText, Body: "hi"}))
		waitAll(t, f.uc)
		got := f.gateway.received()
		require.Len(t, got, 1)
		assert.Equal(t, robot.TitleText, got[0].msg.Text.Title)
	})

	t.Run("invalid kind", func(t *testing.T) {
		f := newFixture(t)
		assert.False(t, f.uc.Submit(ctx, robot.SubmitInput{Kind: "image", Body: "x"}))
		assert.Equal(t, int64(0), f.uc.Stats().Accepted)
	})
}

func TestDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.setReply(`{"errcode":310000,"errmsg":"sign not match"}`)

	require.True(t, f.uc.Markdown(context.Background(), robot.MarkdownInput{Markdown: "# x"}))
	waitAll(t, f.uc)

	s := f.uc.Stats()
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, int64(0), s.Delivered)
	assert.Len(t, f.gateway.received(), 1, "failures are not retried")
}

func TestRequeue(t *testing.T) {
	ctx := context.Background()

	t.Run("waits for the credential window to roll", func(t *testing.T) {
		f := newFixture(t, withBackoff(10*time.Millisecond), withCredentialLimit(1))

		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "first"}))
		require.Eventually(t, func() bool { return f.uc.Stats().Delivered == 1 }, 2*time.Second, 5*time.Millisecond)

		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "second"}))
		require.Eventually(t, func() bool { return f.uc.Stats().Requeued >= 2 }, 2*time.Second, 5*time.Millisecond)
		assert.Len(t, f.gateway.received(), 1)
		assert.Equal(t, int64(1), f.uc.Stats().Pending)

		f.clock.Advance(ratelimit.CredentialWindow)
		waitAll(t, f.uc)

		got := f.gateway.received()
		require.Len(t, got, 2)
		assert.Equal(t, "second", got[1].msg.Text.Content)
		assert.Equal(t, int64(0), f.uc.Stats().Pending)
	})

	t.Run("shutdown abandons requeued messages", func(t *testing.T) {
		f := newFixture(t, withBackoff(time.Hour), withCredentialLimit(1))

		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "first"}))
		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "second"}))
		require.Eventually(t, func() bool { return f.uc.Stats().Requeued >= 1 }, 2*time.Second, 5*time.Millisecond)

		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		require.NoError(t, f.uc.Shutdown(sctx))

		s := f.uc.Stats()
		assert.Equal(t, int64(1), s.Delivered)
		assert.Equal(t, int64(1), s.Failed)
		assert.Equal(t, int64(0), s.Pending)
		assert.False(t, f.uc.Text(ctx, robot.TextInput{Text: "late"}))
	})

	t.Run("wait honours its context", func(t *testing.T) {
		f := newFixture(t, withBackoff(time.Hour), withCredentialLimit(1))
		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "first"}))
		require.True(t, f.uc.Text(ctx, robot.TextInput{Text: "second"}))

		wctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, f.uc.Wait(wctx), context.DeadlineExceeded)

		require.NoError(t, f.uc.Shutdown(ctx))
	})
}

type quotaError struct{ limit int }

func (e *quotaError) Error() string { return fmt.Sprintf("quota of %d exceeded", e.limit) }

type scriptedLimiter struct {
	mu     sync.Mutex
	deny   map[string]bool
	counts map[string]int
}

func (l *scriptedLimiter) Allow(_ context.Context, token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[token]++
	return !l.deny[token]
}

func TestSelector(t *testing.T) {
	ctx := context.Background()
	creds := []robot.Credential{{Token: "a", Secret: "1"}, {Token: "b", Secret: "2"}, {Token: "c", Secret: "3"}}

	t.Run("skips credentials over the cap", func(t *testing.T) {
		l := &scriptedLimiter{deny: map[string]bool{"a": true, "c": true}, counts: map[string]int{}}
		s := selector{limiter: l, shuffle: shuffleCredentials}
		got, ok := s.pick(ctx, creds)
		require.True(t, ok)
		assert.Equal(t, "b", got.Token)
	})

	t.Run("none admissible", func(t *testing.T) {
		l := &scriptedLimiter{deny: map[string]bool{"a": true, "b": true, "c": true}, counts: map[string]int{}}
		s := selector{limiter: l, shuffle: shuffleCredentials}
		_, ok := s.pick(ctx, creds)
		assert.False(t, ok)
		assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, l.counts)
	})

	t.Run("spreads load across credentials", func(t *testing.T) {
		l := &scriptedLimiter{deny: map[string]bool{}, counts: map[string]int{}}
		s := selector{limiter: l, shuffle: shuffleCredentials}
		picked := map[string]int{}
		for i := 0; i < 300; i++ {
			c, ok := s.pick(ctx, creds)
			require.True(t, ok)
			picked[c.Token]++
		}
		for _, c := range creds {
			assert.Greater(t, picked[c.Token], 30, c.Token)
		}
	})

	t.Run("does not reorder the channel list", func(t *testing.T) {
		l := &scriptedLimiter{deny: map[string]bool{}, counts: map[string]int{}}
		reverse := func(c []robot.Credential) {
			for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
				c[i], c[j] = c[j], c[i]
			}
		}
		s := selector{limiter: l, shuffle: reverse}
		got, ok := s.pick(ctx, creds)
		require.True(t, ok)
		assert.Equal(t, "c", got.Token)
		assert.Equal(t, "a", creds[0].Token)
	})
}

func TestNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.True(t, f.uc.Notice(ctx, robot.NoticeInput{
		Channel: "ops",
		Notice:  "queue backlog",
		Data:    map[string]any{"depth": 1200},
		At:      &robot.At{All: true},
		Enrichment: robot.Enrichment{
			TraceID: "req-9",
			Request: &robot.RequestMeta{
				Method:   "POST",
				URL:      "/orders?x=1",
				ClientIP: "192.168.1.5",
				Params:   `{"id":"7"}`,
				Headers:  map[string]string{"User-Agent": "curl", "Client-Sign": "secret", "Cookie": "c"},
			},
		},
	}))
	waitAll(t, f.uc)

	got := f.gateway.received()
	require.Len(t, got, 1)
	msg := got[0].msg
	require.NotNil(t, msg.Markdown)
	assert.Equal(t, robot.TitleNotice, msg.Markdown.Title)
	assert.True(t, msg.At.IsAtAll)

	want := "#### **<font color=#00f>Notice::</font>** \n> **billing(Ops)-[test]**\n" +
		"- Host: \n> 10.0.0.1(REQUEST)\n" +
		"- Request: \n> [POST]/orders?x=1\n" +
		"- Headers: \n> {\"user-agent\":\"curl\"}\n" +
		"- Params: \n> {\"id\":\"7\"}\n" +
		"- Client IP: \n> 192.168.1.5\n" +
		"- Trace: \n> req-9\n" +
		"- Time: \n> 2024-05-01 10:00:00\n" +
		"- Message: \n> queue backlog\n" +
		"- Data: \n> {\"depth\":1200}"
	assert.Equal(t, want, msg.Markdown.Text)
}

func TestNoticeLocal(t *testing.T) {
	f := newFixture(t)
	ctx := log.WithTraceID(context.Background(), "cron-1")

	require.True(t, f.uc.Notice(ctx, robot.NoticeInput{Notice: "nightly job finished"}))
	waitAll(t, f.uc)

	got := f.gateway.received()
	require.Len(t, got, 1)
	text := got[0].msg.Markdown.Text
	assert.Contains(t, text, "- Host: \n> 10.0.0.1(LOCAL)\n- Trace: \n> cron-1\n")
	assert.NotContains(t, text, "- Request:")
	assert.NotContains(t, text, "- Data:")
}

func TestException(t *testing.T) {
	ctx := context.Background()

	t.Run("renders type location and stack", func(t *testing.T) {
		f := newFixture(t)
		err := stackerr.New("connection refused")

		require.True(t, f.uc.Exception(ctx, robot.ExceptionInput{Channel: "ops", Err: err, Data: map[string]any{"order": 7}}))
		waitAll(t, f.uc)

		got := f.gateway.received()
		require.Len(t, got, 1)
		text := got[0].msg.Markdown.Text
		assert.Equal(t, robot.TitleException, got[0].msg.Markdown.Title)
		assert.Contains(t, text, "#### **<font color=#f00>Exception::</font>** \n> **billing(Ops)-[test]**")
		assert.Contains(t, text, "- Type: \n> *errors.fundamental")
		assert.Contains(t, text, "- Description: \n> connection refused")
		assert.Contains(t, text, "- Location: \n> usecase_test.go:")
		assert.Contains(t, text, "- Data: \n> {\"order\":7}")
		assert.Contains(t, text, "- Stack: \n> \n>\n> - ")
	})

	t.Run("dedups on the error message", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, f.uc.Exception(ctx, robot.ExceptionInput{Err: stackerr.New("boom")}))
		assert.False(t, f.uc.Exception(ctx, robot.ExceptionInput{Err: fmt.Errorf("boom")}))
		waitAll(t, f.uc)
		assert.Len(t, f.gateway.received(), 1)
	})

	t.Run("plain errors have no stack", func(t *testing.T) {
		f := newFixture(t)
		cause := &quotaError{limit: 5}
		require.True(t, f.uc.Exception(ctx, robot.ExceptionInput{Err: fmt.Errorf("fetch rates: %w", cause)}))
		waitAll(t, f.uc)

		got := f.gateway.received()
		require.Len(t, got, 1)
		text := got[0].msg.Markdown.Text
		assert.Contains(t, text, "- Type: \n> *usecase.quotaError")
		assert.NotContains(t, text, "- Location:")
		assert.NotContains(t, text, "- Stack:")
	})

	t.Run("nil error", func(t *testing.T) {
		f := newFixture(t)
		assert.False(t, f.uc.Exception(ctx, robot.ExceptionInput{}))
	})
}
