package http

import (
	"errors"
	"net/http"

	pkgErrors "robot-notifier/pkg/errors"
)

var (
	errWrongBody = pkgErrors.NewHTTPError(http.StatusBadRequest, "Malformed JSON body", http.StatusBadRequest)
)

func (h *Handler) mapError(err error) error {
	var collector *pkgErrors.ValidationErrorCollector
	if errors.As(err, &collector) {
		return collector
	}
	return errWrongBody
}
