package repository

import (
	"campus-events/pkg/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *models.Event) error
	GetByID(id string) (*models.Event, error)
	ListApproved() ([]*models.Event, error)
	ListByCreator(creatorID string) ([]*models.Event, error)
	ListPending() ([]*models.Event, error)
	Approve(id string) (*models.Event, error)
	Delete(id string) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListApproved() ([]*models.Event, error) {
	var events []*models.Event
	if err := r.db.Where("approved = ?", true).Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListByCreator(creatorID string) ([]*models.Event, error) {
	var events []*models.Event
	if err := r.db.Where("created_by = ?", creatorID).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListPending() ([]*models.Event, error) {
	var events []*models.Event
	if err := r.db.Preload("Creator").Where("approved = ?", false).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Approve(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&event).Update("approved", true).Error; err != nil {
		return nil, err
	}
	event.Approved = true
	return &event, nil
}

func (r *eventRepository) Delete(id string) error {
	result := r.db.Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
