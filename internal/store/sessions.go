package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"workday/internal/models"
)

// InsertSession persists a new session and fills in its ID.
func (s *Store) InsertSession(ctx context.Context, session *models.WorkSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	s.bus.publish(Event{Table: TableSessions})
	return nil
}

// UpdateSession saves all fields of an existing session and reports
// how many rows were touched.
func (s *Store) UpdateSession(ctx context.Context, session *models.WorkSession) (int64, error) {
	res := s.db.WithContext(ctx).Save(session)
	if res.Error != nil {
		return 0, fmt.Errorf("update session: %w", res.Error)
	}
	s.bus.publish(Event{Table: TableSessions})
	return res.RowsAffected, nil
}

// SessionByID returns the session with the given id, or ErrNotFound.
func (s *Store) SessionByID(ctx context.Context, id uint) (*models.WorkSession, error) {
	var session models.WorkSession
	err := s.db.WithContext(ctx).First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session #%d: %w", id, err)
	}
	return &session, nil
}

// AllSessions returns every session, newest entry time first.
func (s *Store) AllSessions(ctx context.Context) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	err := s.db.WithContext(ctx).
		Order("entry_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SessionsInRange returns sessions whose entry time falls within
// [start, end], newest entry time first.
func (s *Store) SessionsInRange(ctx context.Context, start, end time.Time) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	err := s.db.WithContext(ctx).
		Where("entry_time >= ? AND entry_time <= ?", start, end).
		Order("entry_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions in range: %w", err)
	}
	return sessions, nil
}

// ClearSessions deletes every session row.
func (s *Store) ClearSessions(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.WorkSession{}).Error; err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	s.bus.publish(Event{Table: TableSessions})
	return nil
}
