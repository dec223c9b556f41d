// Package inmemdb is an in-memory user store for tests, local development and
// the admin CLI's dry runs.
package inmemdb

import (
	"sync"

	"github.com/alphauniversity/portal/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		t       map[int]*user.User
		pkCount int
		mutex   sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{t: make(map[int]*user.User)},
	}
	return db, nil
}
