package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"workday/internal/models"
)

// InsertTask persists a new task and fills in its ID.
func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	s.bus.publish(Event{Table: TableTasks})
	return nil
}

// UpdateTask saves all fields of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	s.bus.publish(Event{Table: TableTasks})
	return nil
}

// DeleteTask removes a task unconditionally.
func (s *Store) DeleteTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.bus.publish(Event{Table: TableTasks})
	return nil
}

// TasksForSession returns the tasks attached to a session in
// insertion order.
func (s *Store) TasksForSession(ctx context.Context, sessionID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("work_session_id = ?", sessionID).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks for session #%d: %w", sessionID, err)
	}
	return tasks, nil
}

// TaskByID returns the task with the given id, or ErrNotFound.
func (s *Store) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task #%d: %w", id, err)
	}
	return &task, nil
}

// CompletedCount returns how many of a session's tasks are done.
func (s *Store) CompletedCount(ctx context.Context, sessionID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("work_session_id = ? AND is_completed = ?", sessionID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return int(count), nil
}

// ClearTasks deletes every task row.
func (s *Store) ClearTasks(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	s.bus.publish(Event{Table: TableTasks})
	return nil
}

// ClearAll wipes both tables in a single transaction, then notifies
// subscribers of both.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.WorkSession{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Task{}).Error
	})
	if err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	s.bus.publish(Event{Table: TableSessions})
	s.bus.publish(Event{Table: TableTasks})
	return nil
}
