package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string) error {
	var existing []user.User
	err := repo.db.SelectContext(ctx, &existing, `
SELECT id, username, email, password_hash, is_active, created_at, updated_at
FROM users
WHERE username = $1 OR email = $2
`, username, email)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	for _, usr := range existing {
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.QueryRowContext(ctx, `
INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, usr.Username, usr.Email, usr.PasswordHash, usr.IsActive, usr.CreatedAt, usr.UpdatedAt).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := repo.db.SelectContext(ctx, &users, `
SELECT id, username, email, password_hash, is_active, created_at, updated_at
FROM users
ORDER BY username
`)
	return users, err
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.get(ctx, `WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.get(ctx, `WHERE username = $1`, username)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, `WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.get(ctx, `WHERE username = $1 OR email = $1`, username)
}

func (repo *userRepository) SetUserPassword(ctx context.Context, id int, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, `
UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
`, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) get(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `
SELECT id, username, email, password_hash, is_active, created_at, updated_at
FROM users `+where, arg)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "querying user")
	}
	return usr, nil
}
