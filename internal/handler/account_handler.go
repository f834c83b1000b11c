package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/models"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	Register(context.Context, cqrs.RegisterAccountCommand) (*models.Account, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	Login(context.Context, cqrs.LoginQuery) (*models.Account, error)
}

type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type AccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

// Register answers 400 with no body for any failure, including a taken
// username.
func (h *AccountHandler) Register(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.commands.Register(c.Request.Context(), cqrs.RegisterAccountCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logFailure(c, "register failed", err, models.ErrValidation, models.ErrUsernameTaken)
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	account, err := h.queries.Login(c.Request.Context(), cqrs.LoginQuery{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logFailure(c, "login failed", err, models.ErrInvalidCredentials)
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, account)
}

// logFailure records err unless it is one of the expected outcomes.
func logFailure(c *gin.Context, msg string, err error, expected ...error) {
	for _, e := range expected {
		if errors.Is(err, e) {
			slog.DebugContext(c.Request.Context(), msg, "error", err)
			return
		}
	}
	_ = c.Error(err)
	slog.ErrorContext(c.Request.Context(), msg, "path", c.Request.URL.Path, "error", err)
}
