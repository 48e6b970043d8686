package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stackerr "github.com/friendsofgo/errors"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/dingtalk"
	"robot-notifier/pkg/log"
)

const (
	colorNotice    = "00f"
	colorException = "f00"
	maxStackFrames = 20
)

type field struct {
	label string
	value string
}

type stackTracer interface {
	StackTrace() stackerr.StackTrace
}

type headerFilter map[string]struct{}

func newHeaderFilter(allow, deny []string) headerFilter {
	denied := make(map[string]struct{}, len(deny))
	for _, h := range deny {
		denied[strings.ToLower(h)] = struct{}{}
	}
	f := make(headerFilter, len(allow))
	for _, h := range allow {
		h = strings.ToLower(h)
		if _, ok := denied[h]; !ok {
			f[h] = struct{}{}
		}
	}
	return f
}

func (f headerFilter) apply(headers map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range headers {
		k = strings.ToLower(k)
		if _, ok := f[k]; ok {
			out[k] = v
		}
	}
	return out
}

func toDingTalkAt(at *robot.At) *dingtalk.At {
	switch {
	case at == nil:
		return nil
	case len(at.Mobiles) > 0:
		return &dingtalk.At{AtMobiles: at.Mobiles}
	case len(at.UserIDs) > 0:
		return &dingtalk.At{AtUserIDs: at.UserIDs}
	case at.All:
		return &dingtalk.At{IsAtAll: true}
	default:
		return nil
	}
}

func traceID(ctx context.Context, e robot.Enrichment) string {
	if e.TraceID != "" {
		return e.TraceID
	}
	return log.TraceID(ctx)
}

func withTrace(body, trace string) string {
	if trace == "" {
		return body
	}
	return body + "\n> **Trace:** " + trace
}

// contextFields are the lines shared by notices and exceptions.
func (uc *implUseCase) contextFields(trace string, e robot.Enrichment) []field {
	fields := make([]field, 0, 8)
	if e.Request == nil {
		fields = append(fields, field{"Host", uc.cfg.HostAddr + "(LOCAL)"})
	} else {
		fields = append(fields,
			field{"Host", uc.cfg.HostAddr + "(REQUEST)"},
			field{"Request", fmt.Sprintf("[%s]%s", e.Request.Method, e.Request.URL)},
			field{"Headers", encode(uc.headers.apply(e.Request.Headers))},
			field{"Params", e.Request.Params},
			field{"Client IP", e.Request.ClientIP},
		)
	}
	return append(fields, field{"Trace", trace})
}

func (uc *implUseCase) formatNotice(ctx context.Context, ch robot.Channel, in robot.NoticeInput) string {
	fields := uc.contextFields(traceID(ctx, in.Enrichment), in.Enrichment)
	fields = append(fields,
		field{"Time", uc.cfg.Now().Format(timeLayout)},
		field{"Message", in.Notice},
	)
	if len(in.Data) > 0 {
		fields = append(fields, field{"Data", encode(in.Data)})
	}
	return uc.render(robot.TitleNotice, colorNotice, ch, fields)
}

func (uc *implUseCase) formatException(ctx context.Context, ch robot.Channel, in robot.ExceptionInput) string {
	fields := uc.contextFields(traceID(ctx, in.Enrichment), in.Enrichment)
	fields = append(fields,
		field{"Time", uc.cfg.Now().Format(timeLayout)},
		field{"Type", fmt.Sprintf("%T", rootCause(in.Err))},
		field{"Description", in.Err.Error()},
	)

	frames := stackFrames(in.Err)
	if len(frames) > 0 {
		fields = append(fields, field{"Location", fmt.Sprintf("%s:%d", frames[0], frames[0])})
	}
	if len(in.Data) > 0 {
		fields = append(fields, field{"Data", encode(in.Data)})
	}
	if len(frames) > 0 {
		var b strings.Builder
		b.WriteString("\n>")
		for i, f := range frames {
			if i == maxStackFrames {
				fmt.Fprintf(&b, "\n> - ... %d more", len(frames)-i)
				break
			}
			fmt.Fprintf(&b, "\n> - %n %s:%d", f, f, f)
		}
		fields = append(fields, field{"Stack", b.String()})
	}
	return uc.render(robot.TitleException, colorException, ch, fields)
}

func (uc *implUseCase) render(kind, color string, ch robot.Channel, fields []field) string {
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, fmt.Sprintf("#### **<font color=#%s>%s::</font>** \n> **%s(%s)-[%s]**",
		color, kind, uc.cfg.AppName, ch.Name, uc.cfg.AppEnv))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("- %s: \n> %s", f.label, f.value))
	}
	return strings.Join(lines, "\n")
}

// stackFrames returns the deepest stack recorded in err's chain.
func stackFrames(err error) stackerr.StackTrace {
	var frames stackerr.StackTrace
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			frames = st.StackTrace()
		}
		err = unwrap(err)
	}
	return frames
}

func rootCause(err error) error {
	for {
		next := unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func unwrap(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if c, ok := err.(interface{ Cause() error }); ok {
		if next := c.Cause(); next != err {
			return next
		}
	}
	return nil
}
