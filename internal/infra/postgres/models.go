package postgres

import "time"

// KeyValueModel is the GORM model for the key_values table. Each row holds
// one encoded collection.
type KeyValueModel struct {
	Key       string    `gorm:"type:varchar(200);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for KeyValueModel.
func (KeyValueModel) TableName() string {
	return "key_values"
}
