package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"identity/internal/domain/entity"
	"identity/internal/domain/repository"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository. Uniqueness is enforced inside
// the same lock as the insert, mirroring the atomicity a real store's unique
// indexes provide, which makes it usable for concurrent registration tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	// skipExists makes the advisory Exists* checks report false so tests can
	// drive the check-then-insert race into the constraint path.
	skipExists bool

	// Error injection knobs.
	failExists error
	failInsert error
	failUpdate error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failExists != nil {
		return false, r.failExists
	}
	if r.skipExists {
		return false, nil
	}
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failExists != nil {
		return false, r.failExists
	}
	if r.skipExists {
		return false, nil
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			clone := *u

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u

	return &clone, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		all = append(all, &clone)
	}

	return all, nil
}

func (r *fakeUserRepo) Insert(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failInsert != nil {
		return r.failInsert
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)

	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users)
}

func (r *fakeUserRepo) byUsername(username string) *entity.User {
	u, err := r.FindByUsername(context.Background(), username)
	if err != nil {
		return nil
	}

	return u
}
