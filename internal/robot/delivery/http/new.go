package http

import (
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/log"
)

type Handler struct {
	uc     robot.UseCase
	logger log.Logger
}

func New(logger log.Logger, uc robot.UseCase) *Handler {
	return &Handler{
		uc:     uc,
		logger: logger,
	}
}
