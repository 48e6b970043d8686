package dingtalk

// NewText builds a text message.
func NewText(title, content string, at *At) Message {
	return Message{
		MsgType: MsgTypeText,
		Text:    &TextBody{Title: title, Content: content},
		At:      at,
	}
}

// NewMarkdown builds a markdown message.
func NewMarkdown(title, text string, at *At) Message {
	return Message{
		MsgType:  MsgTypeMarkdown,
		Markdown: &MarkdownBody{Title: title, Text: text},
		At:       at,
	}
}

// Content returns the body text regardless of message type.
func (m Message) Content() string {
	switch {
	case m.Text != nil:
		return m.Text.Content
	case m.Markdown != nil:
		return m.Markdown.Text
	default:
		return ""
	}
}
