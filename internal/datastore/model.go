package datastore

import "time"

// Entry is one stored key/value pair
type Entry struct {
	Name      string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name independent of gorm's naming strategy
func (Entry) TableName() string {
	return "kv_entries"
}
