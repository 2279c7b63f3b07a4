package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"remindly/internal/database"
	"remindly/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetReminders handles listing reminders with optional status/event/group filters
func GetReminders(c *gin.Context) {
	db := database.GetDB()

	query := db.Preload("Event").Preload("Group.Members").Order("reminder_time desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	var reminders []models.Reminder
	if err := query.Find(&reminders).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// GetReminder handles fetching a single reminder by ID
func GetReminder(c *gin.Context) {
	db := database.GetDB()

	var reminder models.Reminder
	err := db.Preload("Event").Preload("Group.Members").First(&reminder, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// CreateReminder handles the creation of a new reminder. The reminder time
// is computed here, once, from the event's current start time; later edits
// to the event do not move it.
func CreateReminder(c *gin.Context) {
	var request models.CreateReminderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()

	var event models.CalendarEvent
	if err := db.First(&event, "id = ?", request.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	var group models.Group
	if err := db.First(&group, "id = ?", request.GroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch group", err)
		return
	}

	message := request.Message
	if message == "" {
		message = fmt.Sprintf("Reminder: %s is happening in %d minutes!", event.Title, request.AdvanceMinutes)
	}

	reminder := models.Reminder{
		EventID:        event.ID,
		GroupID:        group.ID,
		AdvanceMinutes: request.AdvanceMinutes,
		Message:        message,
		ReminderTime:   event.StartTime.Add(-time.Duration(request.AdvanceMinutes) * time.Minute),
		Status:         models.ReminderPending,
	}
	if err := db.Create(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create reminder", err)
		return
	}

	db.Preload("Event").Preload("Group.Members").First(&reminder, "id = ?", reminder.ID)
	c.JSON(http.StatusCreated, reminder)
}

// UpdateReminder handles admin edits to a reminder's message and advance
// label. Only PENDING reminders may be edited, and the update is guarded
// against a concurrent scheduler claim; status and sent_at are the
// scheduler's to write, never the API's.
func UpdateReminder(c *gin.Context) {
	var request models.UpdateReminderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	updates := map[string]interface{}{}
	if request.Message != nil {
		updates["message"] = *request.Message
	}
	if request.AdvanceMinutes != nil {
		updates["advance_minutes"] = *request.AdvanceMinutes
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	db := database.GetDB()

	res := db.Model(&models.Reminder{}).
		Where("id = ? AND status = ?", c.Param("id"), models.ReminderPending).
		Updates(updates)
	if res.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update reminder", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		var reminder models.Reminder
		if err := db.First(&reminder, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Reminder is no longer pending"})
		return
	}

	var reminder models.Reminder
	db.Preload("Event").Preload("Group.Members").First(&reminder, "id = ?", c.Param("id"))
	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder handles deleting a reminder
func DeleteReminder(c *gin.Context) {
	db := database.GetDB()

	res := db.Delete(&models.Reminder{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}
