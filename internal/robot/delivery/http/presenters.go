package http

import (
	"strings"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/errors"
)

const validationCode = 400

// --- Request DTOs ---

type AtReq struct {
	Mobiles []string `json:"at_mobiles"`
	UserIDs []string `json:"at_user_ids"`
	All     bool     `json:"is_at_all"`
}

func (r *AtReq) toAt() *robot.At {
	if r == nil {
		return nil
	}
	return &robot.At{Mobiles: r.Mobiles, UserIDs: r.UserIDs, All: r.All}
}

type TextReq struct {
	Text string `json:"text"`
	At   *AtReq `json:"at"`
}

func (r TextReq) validate() error {
	return requireField("text", r.Text)
}

func (r TextReq) toInput(channel string, e robot.Enrichment) robot.TextInput {
	return robot.TextInput{Channel: channel, Text: r.Text, At: r.At.toAt(), Enrichment: e}
}

type MarkdownReq struct {
	Markdown string `json:"markdown"`
	At       *AtReq `json:"at"`
}

func (r MarkdownReq) validate() error {
	return requireField("markdown", r.Markdown)
}

func (r MarkdownReq) toInput(channel string, e robot.Enrichment) robot.MarkdownInput {
	return robot.MarkdownInput{Channel: channel, Markdown: r.Markdown, At: r.At.toAt(), Enrichment: e}
}

type NoticeReq struct {
	Notice string         `json:"notice"`
	Data   map[string]any `json:"data"`
	At     *AtReq         `json:"at"`
}

func (r NoticeReq) validate() error {
	return requireField("notice", r.Notice)
}

func (r NoticeReq) toInput(channel string, e robot.Enrichment) robot.NoticeInput {
	return robot.NoticeInput{Channel: channel, Notice: r.Notice, Data: r.Data, At: r.At.toAt(), Enrichment: e}
}

type SubmitReq struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
	At    *AtReq `json:"at"`
}

func (r SubmitReq) validate() error {
	collector := errors.NewValidationErrorCollector()
	if !robot.Kind(strings.ToLower(r.Kind)).Valid() {
		collector.Add(errors.NewValidationError(validationCode, "kind", "must be text or markdown"))
	}
	if r.Body == "" {
		collector.Add(errors.NewValidationError(validationCode, "body", "is required"))
	}
	if collector.HasError() {
		return collector
	}
	return nil
}

func (r SubmitReq) toInput(channel string) robot.SubmitInput {
	return robot.SubmitInput{
		Channel: channel,
		Kind:    robot.Kind(strings.ToLower(r.Kind)),
		Title:   r.Title,
		Body:    r.Body,
		At:      r.At.toAt(),
	}
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationErrorCollector().Add(errors.NewValidationError(validationCode, name, "is required"))
	}
	return nil
}

// --- Response DTOs ---

type AcceptedResp struct {
	Accepted bool `json:"accepted"`
}
