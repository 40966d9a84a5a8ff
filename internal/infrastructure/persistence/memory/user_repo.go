package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/user"
)

// UserRepository 用户仓储的内存实现
type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.users), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
	return err == nil, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.users, func(x user.User) bool { return strings.EqualFold(x.Email, u.Email) }) {
		return user.ErrEmailDuplicate
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *UserRepository) ReplaceAll(ctx context.Context, users []user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = slices.Clone(users)
	return nil
}

func (r *UserRepository) find(match func(user.User) bool) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := slices.IndexFunc(r.users, match); i >= 0 {
		u := r.users[i]
		return &u, nil
	}
	return nil, user.ErrUserNotFound
}
