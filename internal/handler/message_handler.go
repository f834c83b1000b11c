package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/models"
)

// MessageCommander defines the write-side operations used by MessageHandler.
type MessageCommander interface {
	CreateMessage(context.Context, cqrs.CreateMessageCommand) (*models.Message, error)
	UpdateMessage(context.Context, cqrs.UpdateMessageCommand) (*models.Message, error)
	DeleteMessage(context.Context, cqrs.DeleteMessageCommand) (*models.Message, error)
}

// MessageQuerier defines the read-side operations used by MessageHandler.
type MessageQuerier interface {
	GetMessage(context.Context, cqrs.GetMessageQuery) (*models.Message, error)
	ListMessages(context.Context, cqrs.ListMessagesQuery) ([]models.Message, error)
	ListAccountMessages(context.Context, cqrs.ListAccountMessagesQuery) ([]models.Message, error)
}

// MessageHandler routes message requests to the command or query service.
// A missing message on GET or DELETE is answered with 200 and an empty body.
type MessageHandler struct {
	commands MessageCommander
	queries  MessageQuerier
}

type CreateMessageRequest struct {
	PostedBy        int    `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

type UpdateMessageRequest struct {
	MessageText string `json:"message_text"`
}

func NewMessageHandler(commands MessageCommander, queries MessageQuerier) *MessageHandler {
	return &MessageHandler{commands: commands, queries: queries}
}

func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	message, err := h.commands.CreateMessage(c.Request.Context(), cqrs.CreateMessageCommand{
		PostedBy: req.PostedBy,
		Text:     req.MessageText,
		PostedAt: req.TimePostedEpoch,
	})
	if err != nil {
		logFailure(c, "create message failed", err, models.ErrValidation, models.ErrUnknownAccount)
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.queries.ListMessages(c.Request.Context(), cqrs.ListMessagesQuery{})
	if err != nil {
		logFailure(c, "list messages failed", err)
		messages = nil
	}
	c.JSON(http.StatusOK, nonNil(messages))
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	id, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	message, err := h.queries.GetMessage(c.Request.Context(), cqrs.GetMessageQuery{MessageID: id})
	if err != nil {
		logFailure(c, "get message failed", err, models.ErrMessageNotFound)
		c.Status(http.StatusOK)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	message, err := h.commands.DeleteMessage(c.Request.Context(), cqrs.DeleteMessageCommand{MessageID: id})
	if err != nil {
		logFailure(c, "delete message failed", err, models.ErrMessageNotFound)
		c.Status(http.StatusOK)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	id, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	message, err := h.commands.UpdateMessage(c.Request.Context(), cqrs.UpdateMessageCommand{
		MessageID: id,
		Text:      req.MessageText,
	})
	if err != nil {
		logFailure(c, "update message failed", err, models.ErrValidation, models.ErrMessageNotFound)
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) ListAccountMessages(c *gin.Context) {
	accountID, ok := pathID(c, "account_id")
	if !ok {
		return
	}

	messages, err := h.queries.ListAccountMessages(c.Request.Context(), cqrs.ListAccountMessagesQuery{AccountID: accountID})
	if err != nil {
		logFailure(c, "list account messages failed", err)
		messages = nil
	}
	c.JSON(http.StatusOK, nonNil(messages))
}

var errBadPathID = errors.New("path id is not an integer")

// pathID parses an integer path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		_ = c.Error(errBadPathID)
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func nonNil(messages []models.Message) []models.Message {
	if messages == nil {
		return []models.Message{}
	}
	return messages
}
