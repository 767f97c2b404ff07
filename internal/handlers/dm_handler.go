package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/27100340/chat-app-backend-v1/internal/services"
)

type DirectMessageHandler struct {
	ChatService  *services.DirectMessageService
	GroupService *services.GroupService
}

func NewDirectMessageHandler(chatService *services.DirectMessageService, groupService *services.GroupService) *DirectMessageHandler {
	return &DirectMessageHandler{
		ChatService:  chatService,
		GroupService: groupService,
	}
}

func (h *DirectMessageHandler) Create(c *gin.Context) {
	req := services.CreateChatRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	chat, err := h.ChatService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *DirectMessageHandler) GetByID(c *gin.Context) {
	chat, err := h.ChatService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// GetForUser returns every conversation a user is part of: both their
// direct chats and their groups.
func (h *DirectMessageHandler) GetForUser(c *gin.Context) {
	userID := c.Param("id")

	chats, err := h.ChatService.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	groups, err := h.GroupService.GetByMember(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"direct_messages": chats,
		"groups":          groups,
	})
}

func (h *DirectMessageHandler) Delete(c *gin.Context) {
	if err := h.ChatService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}
