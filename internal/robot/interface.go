package robot

import "context"

// UseCase dispatches messages to channel robots.
//
// Every send method returns true when the message was accepted for a
// delivery attempt and false when it was dropped by the channel's content
// cooldown or because the channel is disabled. Delivery itself happens in
// the background.
type UseCase interface {
	Submit(ctx context.Context, input SubmitInput) bool
	Text(ctx context.Context, input TextInput) bool
	Markdown(ctx context.Context, input MarkdownInput) bool
	Notice(ctx context.Context, input NoticeInput) bool
	Exception(ctx context.Context, input ExceptionInput) bool

	// Wait blocks until every accepted message has been delivered, has
	// failed, or ctx is done.
	Wait(ctx context.Context) error
	// Shutdown abandons requeued messages and waits for in-flight sends.
	Shutdown(ctx context.Context) error
	Stats() Stats
}
