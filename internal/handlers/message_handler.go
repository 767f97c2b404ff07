package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/27100340/chat-app-backend-v1/internal/services"
)

type MessageHandler struct {
	MessageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		MessageService: messageService,
	}
}

func (h *MessageHandler) Create(c *gin.Context) {
	req := services.CreateMessageRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.MessageService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) GetByID(c *gin.Context) {
	msg, err := h.MessageService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

type updateMessageRequest struct {
	NewContent string `json:"new_content" binding:"required"`
}

func (h *MessageHandler) Update(c *gin.Context) {
	req := updateMessageRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.MessageService.Update(c.Request.Context(), c.Param("id"), req.NewContent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.MessageService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (h *MessageHandler) GetBySender(c *gin.Context) {
	msgs, err := h.MessageService.GetBySender(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// GetConversation returns the two-party history, oldest first.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	user1 := c.Query("user1")
	user2 := c.Query("user2")
	if user1 == "" || user2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user1 and user2 query params are required"})
		return
	}

	msgs, err := h.MessageService.GetConversation(c.Request.Context(), user1, user2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// GetFeed returns everything the user sent or received, newest first.
func (h *MessageHandler) GetFeed(c *gin.Context) {
	msgs, err := h.MessageService.GetFeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) GetForGroup(c *gin.Context) {
	msgs, err := h.MessageService.GetForGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
