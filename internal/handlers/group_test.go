package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"remindly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupWithMembers(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/groups", models.CreateGroupRequest{
		Name:        "Engineering",
		Description: "On-call crew",
		Members: []models.CreateMemberRequest{
			{Name: "Ada", Email: "ada@example.com", Phone: "+15550001111"},
			{Name: "Bob", WhatsApp: "+15550002222"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var group models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &group))
	assert.NotEmpty(t, group.ID)
	require.Len(t, group.Members, 2)
	assert.Equal(t, group.ID, group.Members[0].GroupID)
	assert.True(t, group.Members[0].Reachable())
}

func TestAddAndRemoveGroupMember(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	router.POST("/api/groups/:id/members", AddGroupMember)
	router.DELETE("/api/groups/:id/members/:memberID", RemoveGroupMember)

	group := models.Group{Name: "Engineering"}
	require.NoError(t, db.Create(&group).Error)

	w := doJSON(t, router, http.MethodPost, "/api/groups/"+group.ID+"/members", models.CreateMemberRequest{
		Name:  "Ada",
		Email: "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var member models.GroupMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &member))
	assert.Equal(t, group.ID, member.GroupID)

	w = doJSON(t, router, http.MethodDelete, "/api/groups/"+group.ID+"/members/"+member.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&count)
	assert.Zero(t, count)

	w = doJSON(t, router, http.MethodDelete, "/api/groups/"+group.ID+"/members/"+member.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateGroupMemberPartialEdit(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	router.PUT("/api/groups/:id/members/:memberID", UpdateGroupMember)

	group := models.Group{
		Name:    "Engineering",
		Members: []models.GroupMember{{Name: "Ada", Email: "ada@example.com", Phone: "+15550001111"}},
	}
	require.NoError(t, db.Create(&group).Error)
	member := group.Members[0]

	email := "ada@corp.example.com"
	w := doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID+"/members/"+member.ID,
		models.UpdateMemberRequest{Email: &email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.GroupMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, email, got.Email)
	assert.Equal(t, "+15550001111", got.Phone, "contact fields not in the body stay as they were")
	assert.Equal(t, "Ada", got.Name)

	// Clearing a contact field takes that channel out of future dispatches
	empty := ""
	w = doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID+"/members/"+member.ID,
		models.UpdateMemberRequest{Phone: &empty})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Phone)
	assert.True(t, got.Reachable(), "still reachable by email")

	w = doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID+"/members/no-such-member",
		models.UpdateMemberRequest{Email: &email})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateGroupOmittedFieldsUnchanged(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	router.PUT("/api/groups/:id", UpdateGroup)

	group := models.Group{Name: "Engineering", Description: "On-call crew"}
	require.NoError(t, db.Create(&group).Error)

	name := "Platform"
	w := doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID, models.UpdateGroupRequest{Name: &name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Platform", got.Name)
	assert.Equal(t, "On-call crew", got.Description, "a rename must not wipe the description")

	// An explicit empty string still clears the field
	empty := ""
	w = doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID, models.UpdateGroupRequest{Description: &empty})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Platform", got.Name)
	assert.Empty(t, got.Description)
}

func TestMemberReachability(t *testing.T) {
	m := models.GroupMember{Name: "Ghost"}
	assert.False(t, m.Reachable(), "a member with no contact fields is skipped by delivery")

	m.WhatsApp = "+15550002222"
	assert.True(t, m.Reachable())
}
