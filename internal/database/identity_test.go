package database_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

func TestInsertIdentity_Success(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// inserting a new identity round trips every field
	identity := insertIdentity(t, store, "alice@example.com", tokens.RoleUser)

	got, err := store.GetIdentityByID(identity.ID)
	if err != nil {
		t.Fatalf("GetIdentityByID failed: %v", err)
	}
	if got.Name != identity.Name || got.Email != identity.Email {
		t.Errorf("got %+v, want %+v", got, identity)
	}
	if string(got.Secret) != string(identity.Secret) {
		t.Errorf("Secret = %s, want %s", got.Secret, identity.Secret)
	}
	if !got.CreatedAt.Equal(identity.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, identity.CreatedAt)
	}
}

func TestInsertIdentity_DuplicateEmail(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// first insert succeeds
	insertIdentity(t, store, "alice@example.com", tokens.RoleUser)

	// second insert with same email fails regardless of role
	err := store.InsertIdentity(newIdentity("alice@example.com", tokens.RoleAdmin))
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetIdentityByEmail(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	admin := insertIdentity(t, store, "root@example.com", tokens.RoleAdmin)

	// email lookup ignores role
	got, err := store.GetIdentityByEmail("root@example.com")
	if err != nil {
		t.Fatalf("GetIdentityByEmail failed: %v", err)
	}
	if got.ID != admin.ID {
		t.Errorf("ID = %s, want %s", got.ID, admin.ID)
	}

	// email is case sensitive as stored
	_, err = store.GetIdentityByEmail("ROOT@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetIdentityByEmailAndRole(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	insertIdentity(t, store, "user@example.com", tokens.RoleUser)
	admin := insertIdentity(t, store, "admin@example.com", tokens.RoleAdmin)

	// matching role is found
	got, err := store.GetIdentityByEmailAndRole("admin@example.com", tokens.RoleAdmin)
	if err != nil {
		t.Fatalf("GetIdentityByEmailAndRole failed: %v", err)
	}
	if got.ID != admin.ID {
		t.Errorf("ID = %s, want %s", got.ID, admin.ID)
	}

	// mismatched role is not
	_, err = store.GetIdentityByEmailAndRole("user@example.com", tokens.RoleAdmin)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListIdentitiesByRole(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	insertIdentity(t, store, "a@example.com", tokens.RoleUser)
	insertIdentity(t, store, "b@example.com", tokens.RoleUser)
	insertIdentity(t, store, "admin@example.com", tokens.RoleAdmin)

	users, err := store.ListIdentitiesByRole(tokens.RoleUser)
	if err != nil {
		t.Fatalf("ListIdentitiesByRole failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	for _, u := range users {
		if u.Role != tokens.RoleUser {
			t.Errorf("listed %s with role %s", u.Email, u.Role)
		}
	}
}

func TestUpdateIdentity(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	identity := insertIdentity(t, store, "alice@example.com", tokens.RoleUser)

	// only provided fields change
	name := "Alice Cooper"
	got, err := store.UpdateIdentity(identity.ID, service.IdentityUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateIdentity failed: %v", err)
	}
	if got.Name != name {
		t.Errorf("Name = %s, want %s", got.Name, name)
	}
	if got.Email != identity.Email {
		t.Errorf("Email changed to %s", got.Email)
	}
	if string(got.Secret) != string(identity.Secret) {
		t.Error("Secret changed")
	}
	if got.Role != tokens.RoleUser {
		t.Errorf("Role = %s, want user", got.Role)
	}
}

func TestUpdateIdentity_DuplicateEmail(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	insertIdentity(t, store, "taken@example.com", tokens.RoleUser)
	identity := insertIdentity(t, store, "alice@example.com", tokens.RoleUser)

	email := "taken@example.com"
	_, err := store.UpdateIdentity(identity.ID, service.IdentityUpdate{Email: &email})
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateIdentity_Missing(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	name := "nobody"
	_, err := store.UpdateIdentity("missing", service.IdentityUpdate{Name: &name})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteIdentity(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// setup
	identity := insertIdentity(t, store, "alice@example.com", tokens.RoleUser)

	// first delete removes the row
	deleted, err := store.DeleteIdentity(identity.ID)
	if err != nil {
		t.Fatalf("DeleteIdentity failed: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}

	// second delete finds nothing
	deleted, err = store.DeleteIdentity(identity.ID)
	if err != nil {
		t.Fatalf("DeleteIdentity failed: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false")
	}
}
