package robot

import "errors"

var (
	ErrShutdown     = errors.New("robot: dispatcher is shut down")
	ErrInvalidKind  = errors.New("robot: invalid message kind")
	ErrEmptyChannel = errors.New("robot: channel is required")
)
