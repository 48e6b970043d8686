package usecase

import (
	"context"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/dingtalk"
)

func (uc *implUseCase) Submit(ctx context.Context, input robot.SubmitInput) bool {
	if !input.Kind.Valid() {
		uc.logger.Warnf(ctx, "internal.robot.usecase.Submit: [%s] %v: %q", input.Channel, robot.ErrInvalidKind, input.Kind)
		return false
	}

	title := input.Title
	if title == "" {
		title = robot.TitleText
		if input.Kind == robot.KindMarkdown {
			title = robot.TitleMarkdown
		}
	}

	at := toDingTalkAt(input.At)
	return uc.dispatch(ctx, input.Channel, input.Body, func(robot.Channel) dingtalk.Message {
		if input.Kind == robot.KindMarkdown {
			return dingtalk.NewMarkdown(title, input.Body, at)
		}
		return dingtalk.NewText(title, input.Body, at)
	})
}

func (uc *implUseCase) Text(ctx context.Context, input robot.TextInput) bool {
	body := withTrace(input.Text, traceID(ctx, input.Enrichment))
	at := toDingTalkAt(input.At)
	return uc.dispatch(ctx, input.Channel, input.Text, func(robot.Channel) dingtalk.Message {
		return dingtalk.NewText(robot.TitleText, body, at)
	})
}

func (uc *implUseCase) Markdown(ctx context.Context, input robot.MarkdownInput) bool {
	body := withTrace(input.Markdown, traceID(ctx, input.Enrichment))
	at := toDingTalkAt(input.At)
	return uc.dispatch(ctx, input.Channel, input.Markdown, func(robot.Channel) dingtalk.Message {
		return dingtalk.NewMarkdown(robot.TitleMarkdown, body, at)
	})
}

func (uc *implUseCase) Notice(ctx context.Context, input robot.NoticeInput) bool {
	at := toDingTalkAt(input.At)
	return uc.dispatch(ctx, input.Channel, input.Notice, func(ch robot.Channel) dingtalk.Message {
		return dingtalk.NewMarkdown(robot.TitleNotice, uc.formatNotice(ctx, ch, input), at)
	})
}

func (uc *implUseCase) Exception(ctx context.Context, input robot.ExceptionInput) bool {
	if input.Err == nil {
		uc.logger.Warnf(ctx, "internal.robot.usecase.Exception: [%s] nil error", input.Channel)
		return false
	}

	at := toDingTalkAt(input.At)
	return uc.dispatch(ctx, input.Channel, input.Err.Error(), func(ch robot.Channel) dingtalk.Message {
		return dingtalk.NewMarkdown(robot.TitleException, uc.formatException(ctx, ch, input), at)
	})
}
