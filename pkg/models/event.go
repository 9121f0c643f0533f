package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event starts unapproved when an organizer submits it. An admin decision
// either flips Approved or deletes the row outright; there is no archive.
type Event struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	Date         time.Time `gorm:"not null;index" json:"date"`
	Location     string    `gorm:"not null" json:"location"`
	Category     string    `gorm:"not null;index" json:"category"`
	RegisterLink string    `gorm:"not null" json:"registerLink"`
	Image        string    `json:"image"` // uploaded object URL or external URL
	Approved     bool      `gorm:"default:false;index" json:"approved"`
	CreatedBy    string    `gorm:"type:uuid;not null;index" json:"createdBy"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// PendingEvent is an event annotated with its creator, returned to admins
// reviewing the moderation queue.
type PendingEvent struct {
	Event
	CreatedByUser PublicUser `json:"createdBy_user"`
}

// EventRegistration records that a user registered for an event.
type EventRegistration struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	EventID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Event Event `gorm:"foreignKey:EventID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Bookmark is one row per (user, event) pair; set semantics come from the
// unique composite index.
type Bookmark struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_event" json:"user_id"`
	EventID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_event" json:"event_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
