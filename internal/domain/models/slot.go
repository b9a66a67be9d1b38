package models

import "time"

// SlotEntry is a value a client session keeps across restarts.
type SlotEntry struct {
	Namespace string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey;column:slot_key"`
	Value     []byte
	UpdatedAt time.Time
}
