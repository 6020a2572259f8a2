package database

import (
	"fmt"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

const identityColumns = `id, name, email, secret, role, created_at`

func (s *SQLiteStore) IdentityStore() service.IdentityStore {
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*service.Identity, error) {
	var (
		identity  service.Identity
		role      string
		createdAt int64
	)
	err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.Secret,
		&role,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	identity.Role = tokens.Role(role)
	identity.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &identity, nil
}

func (s *SQLiteStore) InsertIdentity(
	identity *service.Identity,
) error {
	_, err := s.db.Exec(`
		INSERT INTO identity (`+identityColumns+`)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6);`,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.Secret,
		string(identity.Role),
		identity.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", service.ErrConflict, identity.Email)
		}
		return fmt.Errorf("couldn't insert into identity: %v", err)
	}
	return nil
}

func (s *SQLiteStore) GetIdentityByID(
	id string,
) (
	*service.Identity,
	error,
) {
	row := s.db.QueryRow(`
		SELECT `+identityColumns+`
		FROM identity
		WHERE id=?1;`,
		id,
	)
	return scanIdentity(row)
}

func (s *SQLiteStore) GetIdentityByEmail(
	email string,
) (
	*service.Identity,
	error,
) {
	row := s.db.QueryRow(`
		SELECT `+identityColumns+`
		FROM identity
		WHERE email=?1;`,
		email,
	)
	return scanIdentity(row)
}

func (s *SQLiteStore) GetIdentityByEmailAndRole(
	email string,
	role tokens.Role,
) (
	*service.Identity,
	error,
) {
	row := s.db.QueryRow(`
		SELECT `+identityColumns+`
		FROM identity
		WHERE email=?1 AND role=?2;`,
		email,
		string(role),
	)
	return scanIdentity(row)
}

func (s *SQLiteStore) ListIdentitiesByRole(
	role tokens.Role,
) (
	[]service.Identity,
	error,
) {
	rows, err := s.db.Query(`
		SELECT `+identityColumns+`
		FROM identity
		WHERE role=?1
		ORDER BY created_at, rowid;`,
		string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query identity: %v", err)
	}
	defer rows.Close()

	identities := []service.Identity{}
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("couldn't scan identity: %v", err)
		}
		identities = append(identities, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't iterate identity: %v", err)
	}
	return identities, nil
}

func (s *SQLiteStore) UpdateIdentity(
	id string,
	update service.IdentityUpdate,
) (
	*service.Identity,
	error,
) {
	row := s.db.QueryRow(`
		UPDATE identity
		SET name   = COALESCE(?2, name),
		    email  = COALESCE(?3, email),
		    secret = COALESCE(?4, secret)
		WHERE id=?1
		RETURNING `+identityColumns+`;`,
		id,
		nullString(update.Name),
		nullString(update.Email),
		nullBytes(update.Secret),
	)
	identity, err := scanIdentity(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s already registered", service.ErrConflict, *update.Email)
		}
		return nil, err
	}
	return identity, nil
}

func (s *SQLiteStore) DeleteIdentity(
	id string,
) (
	bool,
	error,
) {
	result, err := s.db.Exec(`
		DELETE FROM identity
		WHERE id=?1;`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("couldn't delete from identity: %v", err)
	}

	deleted := !resultsEmpty(result)
	return deleted, nil
}
