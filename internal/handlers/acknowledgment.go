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

// GetAcknowledgments handles listing acknowledgments, optionally for one reminder
func GetAcknowledgments(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("acknowledged_at desc")
	if reminderID := c.Query("reminder_id"); reminderID != "" {
		query = query.Where("reminder_id = ?", reminderID)
	}

	var acks []models.Acknowledgment
	if err := query.Find(&acks).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch acknowledgments", err)
		return
	}

	c.JSON(http.StatusOK, acks)
}

// GetReminderAcknowledgments handles listing the acknowledgments of one reminder
func GetReminderAcknowledgments(c *gin.Context) {
	db := database.GetDB()

	var acks []models.Acknowledgment
	err := db.Where("reminder_id = ?", c.Param("reminderID")).
		Order("acknowledged_at desc").
		Find(&acks).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch acknowledgments", err)
		return
	}

	c.JSON(http.StatusOK, acks)
}

// CreateAcknowledgment handles an explicit acknowledgment submitted through
// the API (typically MANUAL). This write path is independent of the
// scheduler's own per-channel rows and works regardless of the reminder's
// current status.
func CreateAcknowledgment(c *gin.Context) {
	var request models.CreateAcknowledgmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	if !models.ValidAckMethod(request.Method) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid acknowledgment method"})
		return
	}

	db := database.GetDB()

	var reminder models.Reminder
	if err := db.First(&reminder, "id = ?", request.ReminderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	ack := models.Acknowledgment{
		ReminderID:     reminder.ID,
		MemberID:       request.MemberID,
		Method:         request.Method,
		Notes:          request.Notes,
		AcknowledgedAt: time.Now(),
	}
	if err := db.Create(&ack).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create acknowledgment", err)
		return
	}

	c.JSON(http.StatusCreated, ack)
}

// AcknowledgeReminder handles the deep link embedded in outbound messages:
// GET /acknowledge/:id?method=EMAIL. It records a WEB_APP acknowledgment
// noting which channel delivered the link. Anonymous; no member reference.
func AcknowledgeReminder(c *gin.Context) {
	db := database.GetDB()

	var reminder models.Reminder
	if err := db.First(&reminder, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	notes := "Acknowledged via web link"
	tag := models.AckMethod(c.Query("method"))
	if tag != "" && tag != models.AckWebApp && models.ValidAckMethod(tag) {
		notes = fmt.Sprintf("Acknowledged via web link delivered by %s", tag)
	}

	ack := models.Acknowledgment{
		ReminderID:     reminder.ID,
		Method:         models.AckWebApp,
		Notes:          notes,
		AcknowledgedAt: time.Now(),
	}
	if err := db.Create(&ack).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create acknowledgment", err)
		return
	}

	c.JSON(http.StatusCreated, ack)
}
