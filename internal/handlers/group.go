package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"remindly/internal/database"
	"remindly/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetGroups handles listing all groups with their members
func GetGroups(c *gin.Context) {
	db := database.GetDB()

	var groups []models.Group
	if err := db.Preload("Members").Find(&groups).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// GetGroup handles fetching a single group by ID
func GetGroup(c *gin.Context) {
	db := database.GetDB()

	var group models.Group
	err := db.Preload("Members").First(&group, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch group", err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// CreateGroup handles the creation of a new group, optionally with members
func CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	group := models.Group{
		Name:        request.Name,
		Description: request.Description,
	}
	for _, m := range request.Members {
		group.Members = append(group.Members, models.GroupMember{
			Name:     m.Name,
			Email:    m.Email,
			Phone:    m.Phone,
			WhatsApp: m.WhatsApp,
		})
	}

	db := database.GetDB()
	if err := db.Create(&group).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create group", err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// UpdateGroup handles editing a group's name and description
func UpdateGroup(c *gin.Context) {
	var request models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()

	var group models.Group
	if err := db.First(&group, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch group", err)
		return
	}

	// Only fields present in the request body change; an omitted field is
	// not the same as one set to ""
	if request.Name != nil {
		group.Name = *request.Name
	}
	if request.Description != nil {
		group.Description = *request.Description
	}

	if err := db.Save(&group).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update group", err)
		return
	}

	db.Preload("Members").First(&group, "id = ?", group.ID)
	c.JSON(http.StatusOK, group)
}

// DeleteGroup handles deleting a group and its members
func DeleteGroup(c *gin.Context) {
	db := database.GetDB()

	res := db.Delete(&models.Group{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete group", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// AddGroupMember handles adding a member to an existing group
func AddGroupMember(c *gin.Context) {
	var request models.CreateMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()

	var group models.Group
	if err := db.First(&group, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch group", err)
		return
	}

	member := models.GroupMember{
		GroupID:  group.ID,
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		WhatsApp: request.WhatsApp,
	}
	if err := db.Create(&member).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to add member", err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdateGroupMember handles editing a member's name and contact fields.
// Contact edits take effect on the next dispatch; the channel set is
// computed from whatever contact fields are present at scan time.
func UpdateGroupMember(c *gin.Context) {
	var request models.UpdateMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()

	var member models.GroupMember
	err := db.First(&member, "id = ? AND group_id = ?", c.Param("memberID"), c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch member", err)
		return
	}

	if request.Name != nil {
		member.Name = *request.Name
	}
	if request.Email != nil {
		member.Email = *request.Email
	}
	if request.Phone != nil {
		member.Phone = *request.Phone
	}
	if request.WhatsApp != nil {
		member.WhatsApp = *request.WhatsApp
	}

	if err := db.Save(&member).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update member", err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// RemoveGroupMember handles removing a member from a group
func RemoveGroupMember(c *gin.Context) {
	db := database.GetDB()

	res := db.Delete(&models.GroupMember{}, "id = ? AND group_id = ?", c.Param("memberID"), c.Param("id"))
	if res.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to remove member", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
