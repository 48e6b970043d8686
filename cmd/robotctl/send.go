package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"robot-notifier/config"
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var noticeData []string

func textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text [message|-]",
		Short: "Send a plain text message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, args[0], func(ctx context.Context, s *session, body string) bool {
				return s.uc.Text(ctx, robot.TextInput{Channel: s.channel, Text: body, At: mentions()})
			})
		},
	}
}

func markdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markdown [message|-]",
		Short: "Send a markdown message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, args[0], func(ctx context.Context, s *session, body string) bool {
				return s.uc.Markdown(ctx, robot.MarkdownInput{Channel: s.channel, Markdown: body, At: mentions()})
			})
		},
	}
}

func noticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notice [message|-]",
		Short: "Send a formatted notice",
		Long: `Send a notice rendered with the host, trace id and time.

Examples:
  robotctl notice --data host=db1 --data lag=42s "replication lag"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(noticeData)
			if err != nil {
				return err
			}
			return send(cmd, args[0], func(ctx context.Context, s *session, body string) bool {
				return s.uc.Notice(ctx, robot.NoticeInput{Channel: s.channel, Notice: body, Data: data, At: mentions()})
			})
		},
	}
	cmd.Flags().StringArrayVar(&noticeData, "data", nil, "key=value pair attached to the notice (repeatable)")
	return cmd
}

type submitFunc func(ctx context.Context, s *session, body string) bool

func send(cmd *cobra.Command, arg string, submit submitFunc) error {
	body, err := readBody(arg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if channel != "" {
		cfg.Robot.Channel = channel
	}

	ctx := log.WithTraceID(cmd.Context(), uuid.NewString())
	s := newSession(ctx, cfg)

	accepted := submit(ctx, s, body)

	waitCtx, cancel := context.WithTimeout(ctx, waitFor)
	defer cancel()
	if err := s.finish(waitCtx); err != nil {
		return err
	}

	if !accepted {
		fmt.Fprintln(cmd.OutOrStdout(), "dropped: channel disabled or content in cooldown")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "sent")
	return nil
}

// readBody returns arg, or stdin when arg is "-".
func readBody(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	body := strings.TrimRight(string(b), "\n")
	if body == "" {
		return "", fmt.Errorf("empty message on stdin")
	}
	return body, nil
}

func mentions() *robot.At {
	if len(atMobiles) == 0 && len(atUsers) == 0 && !atAll {
		return nil
	}
	return &robot.At{Mobiles: atMobiles, UserIDs: atUsers, All: atAll}
}

func parseData(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --data %q, want key=value", p)
		}
		data[k] = v
	}
	return data, nil
}

