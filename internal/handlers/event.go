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

// GetEvents handles listing events, optionally windowed by start time
func GetEvents(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("start_time asc")
	if startDate := c.Query("start_date"); startDate != "" {
		t, err := time.Parse(time.RFC3339, startDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected RFC3339"})
			return
		}
		query = query.Where("start_time >= ?", t)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		t, err := time.Parse(time.RFC3339, endDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected RFC3339"})
			return
		}
		query = query.Where("start_time <= ?", t)
	}

	var events []models.CalendarEvent
	if err := query.Find(&events).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent handles fetching a single event by ID
func GetEvent(c *gin.Context) {
	db := database.GetDB()

	var event models.CalendarEvent
	if err := db.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent handles the creation of a new calendar event
func CreateEvent(c *gin.Context) {
	var request models.CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	event := models.CalendarEvent{
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Location:    request.Location,
	}

	db := database.GetDB()
	if err := db.Create(&event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles editing an event. Editing StartTime does not touch
// reminders already created for the event; their reminder time was computed
// at creation and stays where it is.
func UpdateEvent(c *gin.Context) {
	var request models.UpdateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()

	var event models.CalendarEvent
	if err := db.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	// Only fields present in the request body change; an omitted field is
	// not the same as one set to ""
	if request.Title != nil {
		event.Title = *request.Title
	}
	if request.Description != nil {
		event.Description = *request.Description
	}
	if request.StartTime != nil {
		event.StartTime = *request.StartTime
	}
	if request.EndTime != nil {
		event.EndTime = request.EndTime
	}
	if request.Location != nil {
		event.Location = *request.Location
	}

	if err := db.Save(&event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles deleting an event
func DeleteEvent(c *gin.Context) {
	db := database.GetDB()

	res := db.Delete(&models.CalendarEvent{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete event", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
