package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/testutil"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

func strPtr(s string) *string { return &s }

func TestProfile(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	alice := env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	view, err := env.Service.Profile(alice.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if view.Email != alice.Email || view.Role != tokens.RoleUser {
		t.Errorf("view = %+v", view)
	}

	_, err = env.Service.Profile("missing")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	alice := env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	view, err := env.Service.UpdateProfile(alice.ID, service.ProfileUpdate{
		Name:     strPtr("  Alice L.  "),
		Password: strPtr("changed-password"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if view.Name != "Alice L." {
		t.Errorf("name = %q", view.Name)
	}
	if view.Email != "alice@example.com" {
		t.Errorf("email changed to %s", view.Email)
	}

	// password was re-hashed
	env.LoginAs(t, tokens.RoleUser, "alice@example.com", "changed-password")
}

func TestUpdateProfile_Validation(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	alice := env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	for name, update := range map[string]service.ProfileUpdate{
		"empty name":     {Name: strPtr("  ")},
		"bad email":      {Email: strPtr("alice")},
		"short password": {Password: strPtr("abc")},
		"long password":  {Password: strPtr(strings.Repeat("p", 73))},
	} {
		_, err := env.Service.UpdateProfile(alice.ID, update)
		if !errors.Is(err, service.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestUpdateProfile_Conflict(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "Bob", "bob@example.com", "password123")
	alice := env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	_, err := env.Service.UpdateProfile(alice.ID, service.ProfileUpdate{Email: strPtr("bob@example.com")})
	if !errors.Is(err, service.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.CreateTestAdmin(t, "Root", "root@example.com", "password123")
	env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	users, err := env.Service.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Errorf("users = %+v", users)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	root := env.CreateTestAdmin(t, "Root", "root@example.com", "password123")
	alice := env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")

	// self deletion is forbidden
	_, err := env.Service.DeleteUser(root.ID, root.ID)
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	view, err := env.Service.DeleteUser(root.ID, alice.ID)
	if err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if view.ID != alice.ID {
		t.Errorf("deleted %s, want %s", view.ID, alice.ID)
	}

	// absent target
	_, err = env.Service.DeleteUser(root.ID, alice.ID)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
