package http

import (
	"robot-notifier/internal/middleware"
	"robot-notifier/pkg/response"

	"github.com/gin-gonic/gin"
)

// Text sends a plain text message.
// @Summary Send text
// @Tags Robot
// @Accept json
// @Produce json
// @Param channel path string true "Channel name"
// @Param body body TextReq true "Message"
// @Success 200 {object} AcceptedResp "accepted is false when the content is in cooldown or the channel is disabled"
// @Failure 400 {object} response.Resp
// @Router /api/v1/robots/{channel}/text [POST]
func (h *Handler) Text(c *gin.Context) {
	var req TextReq
	channel, err := processRequest(h, c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok := h.uc.Text(c.Request.Context(), req.toInput(channel, middleware.RequestEnrichment(c)))
	response.OK(c, AcceptedResp{Accepted: ok})
}

// Markdown sends a markdown message.
// @Summary Send markdown
// @Tags Robot
// @Accept json
// @Produce json
// @Param channel path string true "Channel name"
// @Param body body MarkdownReq true "Message"
// @Success 200 {object} AcceptedResp
// @Failure 400 {object} response.Resp
// @Router /api/v1/robots/{channel}/markdown [POST]
func (h *Handler) Markdown(c *gin.Context) {
	var req MarkdownReq
	channel, err := processRequest(h, c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok := h.uc.Markdown(c.Request.Context(), req.toInput(channel, middleware.RequestEnrichment(c)))
	response.OK(c, AcceptedResp{Accepted: ok})
}

// Notice sends a formatted notice carrying the request context.
// @Summary Send notice
// @Tags Robot
// @Accept json
// @Produce json
// @Param channel path string true "Channel name"
// @Param body body NoticeReq true "Notice"
// @Success 200 {object} AcceptedResp
// @Failure 400 {object} response.Resp
// @Router /api/v1/robots/{channel}/notice [POST]
func (h *Handler) Notice(c *gin.Context) {
	var req NoticeReq
	channel, err := processRequest(h, c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok := h.uc.Notice(c.Request.Context(), req.toInput(channel, middleware.RequestEnrichment(c)))
	response.OK(c, AcceptedResp{Accepted: ok})
}

// Submit sends a pre-formatted message as is.
// @Summary Submit message
// @Tags Robot
// @Accept json
// @Produce json
// @Param channel path string true "Channel name"
// @Param body body SubmitReq true "Message"
// @Success 200 {object} AcceptedResp
// @Failure 400 {object} response.Resp
// @Router /api/v1/robots/{channel}/submit [POST]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitReq
	channel, err := processRequest(h, c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok := h.uc.Submit(c.Request.Context(), req.toInput(channel))
	response.OK(c, AcceptedResp{Accepted: ok})
}

// Stats reports the dispatcher counters.
// @Summary Dispatcher stats
// @Tags Robot
// @Produce json
// @Success 200 {object} robot.Stats
// @Router /api/v1/robots/stats [GET]
func (h *Handler) Stats(c *gin.Context) {
	response.OK(c, h.uc.Stats())
}
