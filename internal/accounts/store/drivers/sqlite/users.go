package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/store"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, is_active, created_at, updated_at`

const (
	createUserQuery = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	getUserByIDQuery       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	getUserByEmailQuery    = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	getUserByUsernameQuery = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	// ULIDs sort by creation time, so ordering by id is creation order.
	listUsersQuery = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	updateUserQuery = `UPDATE users
SET username = ?, email = ?, first_name = ?, last_name = ?, password_hash = ?, is_active = ?, updated_at = ?
WHERE id = ?`

	deleteUserQuery = `DELETE FROM users WHERE id = ?`
)

type usersRepo struct {
	q querier
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, createUserQuery,
		u.ID,
		u.Username,
		u.Email,
		mapOptionalString(u.FirstName),
		mapOptionalString(u.LastName),
		u.PasswordHash,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, getUserByIDQuery, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, getUserByEmailQuery, email))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, getUserByUsernameQuery, username))
}

func (r *usersRepo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, listUsersQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, updateUserQuery,
		u.Username,
		u.Email,
		mapOptionalString(u.FirstName),
		mapOptionalString(u.LastName),
		u.PasswordHash,
		u.IsActive,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return mapUnique(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, deleteUserQuery, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// scanTarget is satisfied by both *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func scanUserRow(row scanTarget) (domain.User, error) {
	var (
		u         domain.User
		firstName sql.NullString
		lastName  sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&firstName,
		&lastName,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.FirstName = mapNullStringPtr(firstName)
	u.LastName = mapNullStringPtr(lastName)
	return u, nil
}
