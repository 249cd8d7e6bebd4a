package storage

import (
	"strings"

	"github.com/google/uuid"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
)

// UserRepo provides operations for local user profiles.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create assigns an id when missing and stores the user.
func (r *UserRepo) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Key = model.GenerateUserKey(user.ID)
	return r.db.Set(user)
}

// Update stores changes to an existing user.
func (r *UserRepo) Update(user *model.User) error {
	return r.db.Set(user)
}

// Get retrieves a user by id.
func (r *UserRepo) Get(id string) (*model.User, error) {
	user := &model.User{}
	if err := r.db.Get(model.GenerateUserKey(id), user); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns every local user.
func (r *UserRepo) List() ([]*model.User, error) {
	return GetAllByPrefix(r.db, model.PrefixUser+":", func() *model.User {
		return &model.User{}
	})
}

// Find returns the user matching email, or first and last name when no
// email is given. Comparison ignores case.
func (r *UserRepo) Find(firstName, lastName, email string) (*model.User, error) {
	users, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if email != "" {
			if strings.EqualFold(u.Email, email) {
				return u, nil
			}
			continue
		}
		if strings.EqualFold(u.FirstName, firstName) && strings.EqualFold(u.LastName, lastName) {
			return u, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

// GetMany resolves ids, leaving nil for users that no longer exist.
func (r *UserRepo) GetMany(ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		u, err := r.Get(id)
		if err != nil && !errs.Is(err, errs.ErrUserNotFound) {
			return nil, err
		}
		out[id] = u
	}
	return out, nil
}
