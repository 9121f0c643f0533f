package repository

import (
	"campus-events/pkg/models"

	"gorm.io/gorm"
)

type BookmarkRepository interface {
	Toggle(userID, eventID string) (bool, error)
	ListEvents(userID string) ([]*models.Event, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Toggle flips bookmark membership for (userID, eventID) and reports the
// resulting state. The check and the insert/delete run in one transaction;
// the unique composite index keeps concurrent toggles from doubling up.
func (r *bookmarkRepository) Toggle(userID, eventID string) (bool, error) {
	var bookmarked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Bookmark{}).
			Where("user_id = ? AND event_id = ?", userID, eventID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			bookmarked = false
			return tx.Where("user_id = ? AND event_id = ?", userID, eventID).
				Delete(&models.Bookmark{}).Error
		}

		bookmarked = true
		return tx.Create(&models.Bookmark{UserID: userID, EventID: eventID}).Error
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

func (r *bookmarkRepository) ListEvents(userID string) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.Table("events").
		Select("events.*").
		Joins("INNER JOIN bookmarks ON bookmarks.event_id = events.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
