package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/jackc/pgx/v5"
)

var _ learnhub.IdentityStore = (*Store)(nil)

const identityColumns = "id, name, email, password, role, avatar, courses, created_at, updated_at"

func identityArgs(identity *learnhub.Identity) ([]any, error) {
	var avatar []byte
	if identity.Avatar != nil {
		raw, err := json.Marshal(identity.Avatar)
		if err != nil {
			return nil, err
		}
		avatar = raw
	}
	courses := identity.Courses
	if courses == nil {
		courses = []string{}
	}
	rawCourses, err := json.Marshal(courses)
	if err != nil {
		return nil, err
	}
	return []any{
		identity.ID,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		string(identity.Role),
		avatar,
		rawCourses,
		identity.CreatedAt,
		identity.UpdatedAt,
	}, nil
}

func scanIdentity(row pgx.Row) (*learnhub.Identity, error) {
	var (
		identity learnhub.Identity
		role     string
		avatar   []byte
		courses  []byte
	)
	if err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&role,
		&avatar,
		&courses,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	identity.Role = learnhub.Role(role)
	if len(avatar) > 0 {
		identity.Avatar = &learnhub.AssetRef{}
		if err := json.Unmarshal(avatar, identity.Avatar); err != nil {
			return nil, fmt.Errorf("decode avatar: %w", err)
		}
	}
	if len(courses) > 0 {
		if err := json.Unmarshal(courses, &identity.Courses); err != nil {
			return nil, fmt.Errorf("decode courses: %w", err)
		}
	}
	return &identity, nil
}

func (s *Store) CreateIdentity(ctx context.Context, identity *learnhub.Identity) error {
	const op = "postgres.CreateIdentity"

	args, err := identityArgs(identity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO identities ("+identityColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		args...,
	)
	return mapError(op, err)
}

func (s *Store) FindIdentityByID(ctx context.Context, id string) (*learnhub.Identity, error) {
	const op = "postgres.FindIdentityByID"

	identity, err := scanIdentity(s.db.QueryRow(ctx, "SELECT "+identityColumns+" FROM identities WHERE id = $1", id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return identity, nil
}

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (*learnhub.Identity, error) {
	const op = "postgres.FindIdentityByEmail"

	identity, err := scanIdentity(s.db.QueryRow(ctx, "SELECT "+identityColumns+" FROM identities WHERE email = $1", email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return identity, nil
}

func (s *Store) UpdateIdentity(ctx context.Context, identity *learnhub.Identity) error {
	const op = "postgres.UpdateIdentity"

	args, err := identityArgs(identity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE identities
		SET name = $2, email = $3, password = $4, role = $5, avatar = $6, courses = $7, created_at = $8, updated_at = $9
		WHERE id = $1`,
		args...,
	)
	return requireRow(op, tag, err)
}

func (s *Store) CountIdentitiesCreated(ctx context.Context, from, to time.Time) (int, error) {
	return count(ctx, s.db, "postgres.CountIdentitiesCreated", "identities", from, to)
}
