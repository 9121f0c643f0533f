package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password",
		Role:     RoleStudent,
		Status:   StatusActive,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestUser_Public_StripsPassword(t *testing.T) {
	user := &User{
		ID:       "user-123",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "hashed-secret",
		Role:     RoleOrganizer,
	}

	pub := user.Public()
	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Name, pub.Name)
	assert.Equal(t, user.Email, pub.Email)
	assert.Equal(t, user.Role, pub.Role)
}

func TestEvent_BeforeCreate(t *testing.T) {
	event := &Event{
		Title:     "Test Event",
		CreatedBy: "organizer-123",
	}

	err := event.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	// New events are never approved up front
	assert.False(t, event.Approved)
}

func TestEvent_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-event-id"
	event := &Event{
		ID:        existingID,
		Title:     "Test Event",
		CreatedBy: "organizer-123",
	}

	err := event.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, event.ID)
}

func TestOrganization_View(t *testing.T) {
	org := &Organization{
		ID:        "org-123",
		Name:      "Robotics Club",
		Category:  OrgCategoryTech,
		Website:   "https://robotics.example.com",
		Instagram: "@robotics",
	}
	president := PublicUser{ID: "user-1", Name: "Prez", Email: "prez@example.com"}

	view := org.View(president, nil)
	assert.Equal(t, "https://robotics.example.com", view.SocialLinks.Website)
	assert.Equal(t, "@robotics", view.SocialLinks.Instagram)
	assert.Equal(t, president, view.President)
	assert.NotNil(t, view.Members)
	assert.Empty(t, view.Members)
}

func TestUserRole_Constants(t *testing.T) {
	// Test that role constants are defined
	assert.Equal(t, UserRole("student"), RoleStudent)
	assert.Equal(t, UserRole("organizer"), RoleOrganizer)
	assert.Equal(t, UserRole("admin"), RoleAdmin)
}

func TestUserStatus_Constants(t *testing.T) {
	assert.Equal(t, UserStatus("active"), StatusActive)
	assert.Equal(t, UserStatus("suspended"), StatusSuspended)
}
