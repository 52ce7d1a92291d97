package models

import "time"

// StateEntry is one key of the persisted application state
type StateEntry struct {
	Key       string `gorm:"column:state_key;type:varchar(64);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (StateEntry) TableName() string {
	return "app_state"
}
