package main

import (
	"fmt"
	"time"

	"campus-events/pkg/config"
	"campus-events/pkg/database"
	"campus-events/pkg/logger"
	"campus-events/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a bootstrap admin plus a small demo dataset. Safe to run repeatedly;
// existing users are looked up by email and reused.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Bookmark{},
		&models.EventRegistration{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.OrganizationFollow{},
	); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	if err := seed(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Seed completed")
}

func seed(db *gorm.DB, log *logger.Logger) error {
	admin, err := ensureUser(db, "Campus Admin", "admin@campus.edu", "admin123", models.RoleAdmin)
	if err != nil {
		return err
	}

	organizer, err := ensureUser(db, "Robotics Society", "robotics@campus.edu", "organizer123", models.RoleOrganizer)
	if err != nil {
		return err
	}

	if _, err := ensureUser(db, "Sam Student", "sam@campus.edu", "student123", models.RoleStudent); err != nil {
		return err
	}

	log.Info("Seeded users: admin=%s organizer=%s", admin.Email, organizer.Email)

	var eventCount int64
	if err := db.Model(&models.Event{}).Count(&eventCount).Error; err != nil {
		return err
	}
	if eventCount > 0 {
		log.Info("Events already present, skipping demo events")
		return nil
	}

	events := []*models.Event{
		{
			Title:        "Autumn Robotics Showcase",
			Description:  "Student-built robots compete in the main hall.",
			Date:         time.Now().AddDate(0, 1, 0),
			Location:     "Hall A",
			Category:     "Tech",
			RegisterLink: "https://example.com/robotics-showcase",
			Approved:     true,
			CreatedBy:    organizer.ID,
		},
		{
			Title:        "Open Mic Night",
			Description:  "Poetry, music and comedy from across campus.",
			Date:         time.Now().AddDate(0, 0, 14),
			Location:     "Student Center",
			Category:     "Arts",
			RegisterLink: "https://example.com/open-mic",
			Approved:     false,
			CreatedBy:    organizer.ID,
		},
	}
	for _, event := range events {
		if err := db.Create(event).Error; err != nil {
			return err
		}
	}

	org := &models.Organization{
		Name:         "Robotics Society",
		Description:  "We build robots and break them on weekends.",
		Category:     models.OrgCategoryTech,
		ContactEmail: "robotics@campus.edu",
		Website:      "https://robotics.campus.edu",
		PresidentID:  organizer.ID,
	}
	if err := db.Create(org).Error; err != nil {
		return err
	}
	member := &models.OrganizationMember{OrganizationID: org.ID, UserID: organizer.ID}
	if err := db.Create(member).Error; err != nil {
		return err
	}

	log.Info("Seeded %d demo events and 1 organization", len(events))
	return nil
}

func ensureUser(db *gorm.DB, name, email, password string, role models.UserRole) (*models.User, error) {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   models.StatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
