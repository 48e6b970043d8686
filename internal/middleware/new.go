package middleware

import (
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/jwt"
	"robot-notifier/pkg/log"
)

type Middleware struct {
	logger       log.Logger
	jwtManager   jwt.Manager
	robotUC      robot.UseCase
	traceChannel string
}

// New creates the middleware set. A nil jwtManager disables Auth; a nil
// robotUC disables panic reporting.
func New(logger log.Logger, jwtManager jwt.Manager, robotUC robot.UseCase, traceChannel string) Middleware {
	return Middleware{
		logger:       logger,
		jwtManager:   jwtManager,
		robotUC:      robotUC,
		traceChannel: traceChannel,
	}
}
