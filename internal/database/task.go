package database

import (
	"fmt"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
)

const taskColumns = `id, owner, title, description, status, priority, created_at, updated_at`

func (s *SQLiteStore) TaskStore() service.TaskStore {
	return s
}

func scanTask(row rowScanner) (*service.Task, error) {
	var (
		task                 service.Task
		status, priority     string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = service.TaskStatus(status)
	task.Priority = service.TaskPriority(priority)
	task.CreatedAt = time.Unix(createdAt, 0).UTC()
	task.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &task, nil
}

func (s *SQLiteStore) InsertTask(
	task *service.Task,
) error {
	_, err := s.db.Exec(`
		INSERT INTO task (`+taskColumns+`)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8);`,
		task.ID,
		task.Owner,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.CreatedAt.Unix(),
		task.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("couldn't insert into task: %v", err)
	}
	return nil
}

func (s *SQLiteStore) ListTasksByOwner(
	owner string,
) (
	[]service.Task,
	error,
) {
	rows, err := s.db.Query(`
		SELECT `+taskColumns+`
		FROM task
		WHERE owner=?1
		ORDER BY created_at, rowid;`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query task: %v", err)
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("couldn't scan task: %v", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't iterate task: %v", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) GetTask(
	owner string,
	id string,
) (
	*service.Task,
	error,
) {
	row := s.db.QueryRow(`
		SELECT `+taskColumns+`
		FROM task
		WHERE id=?1 AND owner=?2;`,
		id,
		owner,
	)
	return scanTask(row)
}

func (s *SQLiteStore) UpdateTask(
	owner string,
	id string,
	update service.TaskUpdate,
) (
	*service.Task,
	error,
) {
	row := s.db.QueryRow(`
		UPDATE task
		SET title       = COALESCE(?3, title),
		    description = COALESCE(?4, description),
		    status      = COALESCE(?5, status),
		    priority    = COALESCE(?6, priority),
		    updated_at  = ?7
		WHERE id=?1 AND owner=?2
		RETURNING `+taskColumns+`;`,
		id,
		owner,
		nullString(update.Title),
		nullString(update.Description),
		nullString(update.Status),
		nullString(update.Priority),
		update.UpdatedAt.Unix(),
	)
	return scanTask(row)
}

func (s *SQLiteStore) DeleteTask(
	owner string,
	id string,
) (
	*service.Task,
	error,
) {
	row := s.db.QueryRow(`
		DELETE FROM task
		WHERE id=?1 AND owner=?2
		RETURNING `+taskColumns+`;`,
		id,
		owner,
	)
	return scanTask(row)
}
