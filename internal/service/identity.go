package service

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

const minPasswordLength = 6

// bcrypt refuses longer input
const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Identity is a stored account. Secret holds the bcrypt hash and never
// leaves this package's boundary except through the store.
type Identity struct {
	ID        string
	Name      string
	Email     string
	Secret    []byte
	Role      tokens.Role
	CreatedAt time.Time
}

// View projects the identity without its secret.
func (i *Identity) View() IdentityView {
	return IdentityView{
		ID:        i.ID,
		Name:      i.Name,
		Email:     i.Email,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
	}
}

func (i *Identity) principal() *Principal {
	return &Principal{
		ID:    i.ID,
		Name:  i.Name,
		Email: i.Email,
		Role:  i.Role,
	}
}

type IdentityView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      tokens.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Principal is the identity attached to an authenticated request. It is
// loaded fresh from the store, never taken from token claims alone.
type Principal struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  tokens.Role `json:"role"`
}

// IdentityUpdate is the set of mutable identity fields. Role is absent on
// purpose: it cannot change after creation.
type IdentityUpdate struct {
	Name   *string
	Email  *string
	Secret []byte
}

func (u IdentityUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Secret == nil
}

// ProfileUpdate is what an owner may send to change their own profile.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}

func (s *Service) getIdentity(id string) (*Identity, error) {
	identity, err := s.identityStore.GetIdentityByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to retrieve identity: %v", ErrInternal, err)
	}
	return identity, nil
}

func (s *Service) Profile(
	id string,
) (
	*IdentityView,
	error,
) {
	identity, err := s.getIdentity(id)
	if err != nil {
		return nil, err
	}
	view := identity.View()
	return &view, nil
}

func (s *Service) UpdateProfile(
	id string,
	req ProfileUpdate,
) (
	*IdentityView,
	error,
) {
	update := IdentityUpdate{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		update.Name = &name
	}

	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return nil, err
		}
		update.Email = req.Email
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		update.Secret = hash
	}

	if update.Empty() {
		return s.Profile(id)
	}

	identity, err := s.identityStore.UpdateIdentity(id, update)
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			return nil, err
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		default:
			return nil, fmt.Errorf("%w: failed to update identity: %v", ErrInternal, err)
		}
	}

	view := identity.View()
	return &view, nil
}

// ListUsers returns every identity with role user. Admins are not listed.
func (s *Service) ListUsers() ([]IdentityView, error) {
	identities, err := s.identityStore.ListIdentitiesByRole(tokens.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %v", ErrInternal, err)
	}

	views := make([]IdentityView, 0, len(identities))
	for i := range identities {
		views = append(views, identities[i].View())
	}
	return views, nil
}

// DeleteUser removes target on behalf of actor. An actor can never delete
// itself. The target's tasks go with it.
func (s *Service) DeleteUser(
	actorID string,
	targetID string,
) (
	*IdentityView,
	error,
) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	}

	target, err := s.getIdentity(targetID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.identityStore.DeleteIdentity(targetID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to delete identity: %v", ErrInternal, err)
	}
	if !deleted {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, targetID)
	}

	view := target.View()
	return &view, nil
}
