package models

import (
	"time"

	"gorm.io/gorm"
)

// DispatchLog records one control-dispatch attempt and which delivery
// paths succeeded.
type DispatchLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	Action      string         `gorm:"not null" json:"action"`
	TargetAppID string         `json:"target_app_id"`
	NativeOK    bool           `gorm:"not null;default:false" json:"native_ok"`
	KeyOK       bool           `gorm:"not null;default:false" json:"key_ok"`
	Success     bool           `gorm:"not null;default:false;index" json:"success"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
