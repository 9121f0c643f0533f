package repository

import (
	"campus-events/pkg/models"

	"gorm.io/gorm"
)

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalEvents    int64 `json:"totalEvents"`
	ApprovedEvents int64 `json:"approvedEvents"`
	PendingEvents  int64 `json:"pendingEvents"`
}

type AdminRepository interface {
	ListUsers() ([]*models.User, error)
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	DeleteUser(id string) error
	Stats() (*Stats, error)
	RecentEvents(limit int) ([]*models.Event, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) ListUsers() ([]*models.User, error) {
	var users []*models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *adminRepository) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *adminRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *adminRepository) DeleteUser(id string) error {
	result := r.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRepository) Stats() (*Stats, error) {
	var stats Stats
	if err := r.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Event{}).Where("approved = ?", true).Count(&stats.ApprovedEvents).Error; err != nil {
		return nil, err
	}
	stats.PendingEvents = stats.TotalEvents - stats.ApprovedEvents
	return &stats, nil
}

func (r *adminRepository) RecentEvents(limit int) ([]*models.Event, error) {
	var events []*models.Event
	if err := r.db.Preload("Creator").Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
