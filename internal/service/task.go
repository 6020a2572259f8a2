package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const minTitleLength = 2

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	Owner       string       `json:"owner"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskInput is the body of a create request. Zero values take defaults.
type TaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
}

// TaskPatch is the body of an update request; nil fields are left alone.
type TaskPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
}

// TaskUpdate is what the store applies.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	UpdatedAt   time.Time
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) < minTitleLength {
		return "", fmt.Errorf("%w: title must be at least %d characters", ErrValidation, minTitleLength)
	}
	return title, nil
}

func validateStatus(status TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}
	return nil
}

func validatePriority(priority TaskPriority) error {
	if !priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", ErrValidation, priority)
	}
	return nil
}

func (s *Service) CreateTask(
	owner string,
	in TaskInput,
) (
	*Task,
	error,
) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = StatusPending
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}

	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	task := &Task{
		ID:          uuid.NewString(),
		Owner:       owner,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskStore.InsertTask(task); err != nil {
		return nil, fmt.Errorf("%w: failed to insert task: %v", ErrInternal, err)
	}

	return task, nil
}

func (s *Service) ListTasks(owner string) ([]Task, error) {
	tasks, err := s.taskStore.ListTasksByOwner(owner)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tasks: %v", ErrInternal, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func (s *Service) GetTask(
	owner string,
	id string,
) (
	*Task,
	error,
) {
	task, err := s.taskStore.GetTask(owner, id)
	if err != nil {
		return nil, taskLookupError(id, err)
	}
	return task, nil
}

func (s *Service) UpdateTask(
	owner string,
	id string,
	patch TaskPatch,
) (
	*Task,
	error,
) {
	update := TaskUpdate{
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		update.Title = &title
	}

	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		update.Description = &description
	}

	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return nil, err
		}
		update.Status = patch.Status
	}

	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return nil, err
		}
		update.Priority = patch.Priority
	}

	task, err := s.taskStore.UpdateTask(owner, id, update)
	if err != nil {
		return nil, taskLookupError(id, err)
	}
	return task, nil
}

func (s *Service) DeleteTask(
	owner string,
	id string,
) (
	*Task,
	error,
) {
	task, err := s.taskStore.DeleteTask(owner, id)
	if err != nil {
		return nil, taskLookupError(id, err)
	}
	return task, nil
}

func taskLookupError(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	return fmt.Errorf("%w: task %s: %v", ErrInternal, id, err)
}
