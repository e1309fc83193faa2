package models

import (
	"time"
)

// WorkSession is one tracked work day, bounded by entry and
// (optional) exit timestamps.
type WorkSession struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	EntryTime          time.Time  `gorm:"not null" json:"entry_time"`
	ExitTime           *time.Time `json:"exit_time"`
	PlannedExitTime    *time.Time `json:"planned_exit_time"`
	CommuteTimeMinutes int        `gorm:"not null;default:0" json:"commute_time_minutes"`
	MorningAlarmTime   time.Time  `gorm:"not null" json:"morning_alarm_time"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:WorkSessionID" json:"tasks,omitempty"`
}

// TableName pins the table name regardless of gorm's pluralizer.
func (WorkSession) TableName() string { return "work_sessions" }

// Open reports whether the session has no recorded exit time.
func (s *WorkSession) Open() bool {
	return s.ExitTime == nil
}
