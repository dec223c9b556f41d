package inmemdb

import (
	"context"

	"github.com/alphauniversity/portal/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (r *userRepository) query() []user.User {
	res := make([]user.User, 0, len(r.db.t))
	for _, u := range r.db.t {
		res = append(res, *u)
	}
	return res
}

func (r *userRepository) CheckUsernameUniqueness(_ context.Context, username, email string) error {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.query() {
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (r *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.pkCount++
	usr.ID = r.db.pkCount
	r.db.t[usr.ID] = &usr
	return usr, nil
}

func (r *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(), nil
}

func (r *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if usr, ok := r.db.t[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.query() {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByUsernameOrEmail(_ context.Context, username string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.query() {
		if (usr.Username == username) || (usr.Email == username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) SetUserPassword(_ context.Context, id int, hash []byte) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	usr, ok := r.db.t[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.PasswordHash = hash
	return nil
}
