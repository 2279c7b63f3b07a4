package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"remindly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSentReminder(t *testing.T, db *gorm.DB) models.Reminder {
	t.Helper()
	event, group := seedEventAndGroup(t, db, time.Now().Add(time.Hour))
	now := time.Now()
	reminder := models.Reminder{
		EventID:        event.ID,
		GroupID:        group.ID,
		ReminderTime:   event.StartTime.Add(-15 * time.Minute),
		AdvanceMinutes: 15,
		Message:        "Standup soon",
		Status:         models.ReminderSent,
		SentAt:         &now,
	}
	require.NoError(t, db.Create(&reminder).Error)
	return reminder
}

func TestAcknowledgeDeepLink(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	reminder := seedSentReminder(t, db)

	w := doJSON(t, router, http.MethodGet, "/acknowledge/"+reminder.ID+"?method=EMAIL", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ack models.Acknowledgment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, models.AckWebApp, ack.Method)
	assert.Contains(t, ack.Notes, "EMAIL")
	assert.Nil(t, ack.MemberID)
	assert.False(t, ack.AcknowledgedAt.IsZero())
}

func TestAcknowledgeDeepLinkUnknownReminder(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/acknowledge/no-such-id?method=EMAIL", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManualAcknowledgmentAfterSent(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	reminder := seedSentReminder(t, db)

	// The scheduler already recorded its own delivery row
	memberID := "mem-1"
	require.NoError(t, db.Create(&models.Acknowledgment{
		ReminderID: reminder.ID,
		MemberID:   &memberID,
		Method:     models.AckEmail,
		Notes:      "EMAIL sent to ada@example.com. Provider ID: abc",
	}).Error)

	// A manual acknowledgment for an already-SENT reminder still succeeds;
	// the two write paths do not conflict
	w := doJSON(t, router, http.MethodPost, "/api/acknowledgments", models.CreateAcknowledgmentRequest{
		ReminderID: reminder.ID,
		Method:     models.AckManual,
		Notes:      "Confirmed by phone",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/acknowledgments/reminder/"+reminder.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var acks []models.Acknowledgment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acks))
	assert.Len(t, acks, 2)
}

func TestCreateAcknowledgmentInvalidMethod(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	reminder := seedSentReminder(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/acknowledgments", models.CreateAcknowledgmentRequest{
		ReminderID: reminder.ID,
		Method:     "CARRIER_PIGEON",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAcknowledgmentUnknownReminder(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/acknowledgments", models.CreateAcknowledgmentRequest{
		ReminderID: "no-such-id",
		Method:     models.AckManual,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
