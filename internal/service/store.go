package service

import "github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"

// IdentityStore handles persistence of user and admin identities.
// Lookups that find nothing return sql.ErrNoRows; a duplicate email on
// insert or update returns an error wrapping ErrConflict.
type IdentityStore interface {
	InsertIdentity(identity *Identity) error
	GetIdentityByID(id string) (*Identity, error)
	GetIdentityByEmail(email string) (*Identity, error)
	GetIdentityByEmailAndRole(email string, role tokens.Role) (*Identity, error)
	ListIdentitiesByRole(role tokens.Role) ([]Identity, error)
	UpdateIdentity(id string, update IdentityUpdate) (*Identity, error)
	DeleteIdentity(id string) (deleted bool, err error)
}

// TaskStore handles persistence of tasks. Every single-task operation is
// scoped by owner; a task owned by someone else looks exactly like a
// missing one.
type TaskStore interface {
	InsertTask(task *Task) error
	ListTasksByOwner(owner string) ([]Task, error)
	GetTask(owner string, id string) (*Task, error)
	UpdateTask(owner string, id string, update TaskUpdate) (*Task, error)
	DeleteTask(owner string, id string) (*Task, error)
}
