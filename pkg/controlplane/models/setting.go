package models

import "time"

// Well-known setting keys.
const (
	// SettingInventoryImportedAt records when the last inventory import completed (RFC 3339).
	SettingInventoryImportedAt = "inventory.imported_at"
	// SettingInventorySource records the file the last inventory was imported from.
	SettingInventorySource = "inventory.source"
)

// Setting stores system-wide key-value settings.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Setting.
func (Setting) TableName() string {
	return "settings"
}
