package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/27100340/chat-app-backend-v1/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		GroupService: groupService,
	}
}

func (h *GroupHandler) Create(c *gin.Context) {
	req := services.CreateGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.GroupService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) GetByID(c *gin.Context) {
	group, err := h.GroupService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

type updateGroupRequest struct {
	Name        *string `json:"group_name"`
	Description *string `json:"group_description"`
}

func (h *GroupHandler) Update(c *gin.Context) {
	req := updateGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.GroupService.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

type memberRequest struct {
	MemberID string `json:"member_id" binding:"required"`
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	req := memberRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.GroupService.AddMember(c.Request.Context(), c.Param("id"), req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	group, err := h.GroupService.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("memberID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

type changeAdminRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
}

func (h *GroupHandler) ChangeAdmin(c *gin.Context) {
	req := changeAdminRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.GroupService.ChangeAdmin(c.Request.Context(), c.Param("id"), req.AdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.GroupService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}

// GetByMember lists the groups a user belongs to.
func (h *GroupHandler) GetByMember(c *gin.Context) {
	groups, err := h.GroupService.GetByMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}
