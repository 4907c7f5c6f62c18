package database

import (
	"strings"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for the diagnostics store.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateSelectionEvent inserts the winner of one discovery cycle.
func (r *Repository) CreateSelectionEvent(event *models.SelectionEvent) error {
	event.AppID = strings.ToLower(event.AppID)
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert selection event")
	}
	return nil
}

// GetSelectionsSince retrieves all selection events since a given time.
func (r *Repository) GetSelectionsSince(since time.Time) ([]*models.SelectionEvent, error) {
	var events []*models.SelectionEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query selection events")
	}

	return events, nil
}

// GetLatestSelection retrieves the most recent selection event, or nil
// when none has been recorded.
func (r *Repository) GetLatestSelection() (*models.SelectionEvent, error) {
	var event models.SelectionEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest selection")
	}
	return &event, nil
}

// GetAppActivitySince returns per-app selection counts since a given
// time. SQL does the grouping; runtime fills in percentages.
func (r *Repository) GetAppActivitySince(since time.Time) ([]models.AppActivity, error) {
	var activity []models.AppActivity

	result := r.db.Model(&models.SelectionEvent{}).
		Select("app_id, COUNT(*) as win_count, SUM(CASE WHEN is_playing THEN 1 ELSE 0 END) as playing_count").
		Where("timestamp >= ?", since).
		Group("app_id").
		Order("win_count DESC").
		Scan(&activity)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app activity")
	}

	return activity, nil
}

// CreateDispatchLog inserts one dispatch outcome.
func (r *Repository) CreateDispatchLog(entry *models.DispatchLog) error {
	result := r.db.Create(entry)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert dispatch log")
	}
	return nil
}

// CountDispatchesSince returns total and successful dispatch counts.
func (r *Repository) CountDispatchesSince(since time.Time) (total int64, ok int64, err error) {
	result := r.db.Model(&models.DispatchLog{}).Where("timestamp >= ?", since).Count(&total)
	if result.Error != nil {
		return 0, 0, errors.Wrap(result.Error, "failed to count dispatches")
	}

	result = r.db.Model(&models.DispatchLog{}).Where("timestamp >= ? AND success = ?", since, true).Count(&ok)
	if result.Error != nil {
		return 0, 0, errors.Wrap(result.Error, "failed to count successful dispatches")
	}

	return total, ok, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// CountErrorsSince returns the number of recorded errors.
func (r *Repository) CountErrorsSince(since time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.ErrorLog{}).Where("timestamp >= ?", since).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count errors")
	}
	return count, nil
}

// DeleteOldEvents deletes diagnostics rows older than a specified date
// (soft delete).
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	var affected int64

	result := r.db.Where("timestamp < ?", before).Delete(&models.SelectionEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old selection events")
	}
	affected += result.RowsAffected

	result = r.db.Where("timestamp < ?", before).Delete(&models.DispatchLog{})
	if result.Error != nil {
		return affected, errors.Wrap(result.Error, "failed to delete old dispatch logs")
	}
	affected += result.RowsAffected

	return affected, nil
}

// Clear removes all diagnostics data.
func (r *Repository) Clear() error {
	for _, model := range []interface{}{
		&models.SelectionEvent{},
		&models.DispatchLog{},
		&models.ErrorLog{},
	} {
		if result := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model); result.Error != nil {
			return errors.Wrap(result.Error, "failed to clear diagnostics data")
		}
	}
	return nil
}
