package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the users table. Obtain one with DB.Users.
type UserDB struct {
	conn *sqlx.DB
}

const userColumns = `id, clerk_id, name, username, email, picture, bio, location,
	portfolio_website, reputation, joined_at, updated_at`

// Create inserts a new user mirrored from the identity provider.
// A second create for the same ClerkID is a conflict.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.JoinedAt = now
	user.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO users (id, clerk_id, name, username, email, picture, bio, location,
			portfolio_website, reputation, joined_at, updated_at)
		 VALUES (:id, :clerk_id, :name, :username, :email, :picture, :bio, :location,
			:portfolio_website, :reputation, :joined_at, :updated_at)`,
		user,
	)
	if isUniqueViolation(err) {
		return apperror.Conflict("user", user.ClerkID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (clerkID=%s): %w", user.ClerkID, err)
	}

	return nil
}

// Upsert inserts the user or, when the ClerkID already exists, overwrites
// the identity-owned fields. Profile fields (bio, location, portfolio) and
// the internal ID survive. The caller's struct is refreshed from the
// stored row.
//
// Concurrent upserts for one ClerkID are not ordered: the last statement
// to run wins.
func (db *UserDB) Upsert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.JoinedAt = now
	user.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO users (id, clerk_id, name, username, email, picture, joined_at, updated_at)
		 VALUES (:id, :clerk_id, :name, :username, :email, :picture, :joined_at, :updated_at)
		 ON CONFLICT (clerk_id) DO UPDATE SET
			name       = excluded.name,
			username   = excluded.username,
			email      = excluded.email,
			picture    = excluded.picture,
			updated_at = excluded.updated_at`,
		user,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user (clerkID=%s): %w", user.ClerkID, err)
	}

	stored, err := db.GetByClerkID(ctx, user.ClerkID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

// DeleteByClerkID removes the user. Their questions, answers and the
// question/tag links cascade through foreign keys.
func (db *UserDB) DeleteByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning delete of user %s: %w", clerkID, err)
	}
	defer tx.Rollback()

	var u model.User
	err = tx.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE clerk_id = ?`, clerkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", clerkID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading user %s for delete: %w", clerkID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID); err != nil {
		return nil, fmt.Errorf("sqlite: deleting user %s: %w", clerkID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing delete of user %s: %w", clerkID, err)
	}
	return &u, nil
}

// GetByClerkID retrieves a user by the identity provider's id.
// Returns apperror.ErrNotFound if no user is mirrored for it.
func (db *UserDB) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE clerk_id = ?`, clerkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", clerkID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user by clerk id %s: %w", clerkID, err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by their internal ID.
func (db *UserDB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}

// UpdateProfile writes the user-editable profile fields.
func (db *UserDB) UpdateProfile(ctx context.Context, clerkID string, update model.ProfileUpdate) (*model.User, error) {
	query, args, err := sq.Update("users").
		SetMap(map[string]any{
			"name":              update.Name,
			"username":          update.Username,
			"bio":               update.Bio,
			"location":          update.Location,
			"portfolio_website": update.PortfolioWebsite,
			"updated_at":        time.Now().UTC(),
		}).
		Where(sq.Eq{"clerk_id": clerkID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building profile update: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating profile of %s: %w", clerkID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("user", clerkID)
	}

	return db.GetByClerkID(ctx, clerkID)
}
