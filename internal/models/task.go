package models

// Task is a to-do item scoped to exactly one work session.
type Task struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Description   string `gorm:"not null" json:"description"`
	IsCompleted   bool   `gorm:"default:false" json:"is_completed"`
	WorkSessionID uint   `gorm:"not null;index" json:"work_session_id"`
}

// TableName pins the table name regardless of gorm's pluralizer.
func (Task) TableName() string { return "tasks" }
