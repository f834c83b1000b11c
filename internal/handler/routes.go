package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public API on r.
func RegisterRoutes(r gin.IRouter, accounts *AccountHandler, messages *MessageHandler) {
	r.POST("/register", accounts.Register)
	r.POST("/login", accounts.Login)

	r.POST("/messages", messages.CreateMessage)
	r.GET("/messages", messages.ListMessages)
	r.GET("/messages/:message_id", messages.GetMessage)
	r.DELETE("/messages/:message_id", messages.DeleteMessage)
	r.PATCH("/messages/:message_id", messages.UpdateMessage)

	r.GET("/accounts/:account_id/messages", messages.ListAccountMessages)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
