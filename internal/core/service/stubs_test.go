package service

import (
	"context"
	"sort"
	"strings"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository.
type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	err    error // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for id, u := range r.users {
		if u.Username == user.Username && id != user.ID {
			return nil, domain.ErrUserExists
		}
	}
	c := user.Clone()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.users[c.ID] = c
	return c.Clone(), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// plainHasher marks digests with a prefix so tests stay fast and readable.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, digest string) bool {
	return strings.TrimPrefix(digest, "hashed:") == plain && strings.HasPrefix(digest, "hashed:")
}

// stubTokens encodes the principal into a readable token.
type stubTokens struct {
	issueErr error
}

func (s stubTokens) Issue(p *domain.Principal) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return "tok:" + p.Username + ":" + strings.Join(p.Authorities, ","), nil
}

func (stubTokens) Verify(token string) (*domain.Principal, error) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "tok" {
		return nil, domain.ErrInvalidToken
	}
	var auths []string
	if parts[2] != "" {
		auths = strings.Split(parts[2], ",")
	}
	return &domain.Principal{Username: parts[1], Authorities: auths, Enabled: true}, nil
}

// recordingCache is a map-backed ports.UserCache that counts invalidations.
type recordingCache struct {
	users         map[int64]ports.UserDetail
	list          []ports.UserDetail
	invalidations []int64
}

func newRecordingCache() *recordingCache {
	return &recordingCache{users: make(map[int64]ports.UserDetail)}
}

func (c *recordingCache) GetUser(_ context.Context, id int64) (*ports.UserDetail, error) {
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *recordingCache) SetUser(_ context.Context, u ports.UserDetail) error {
	c.users[u.ID] = u
	return nil
}

func (c *recordingCache) GetList(context.Context) ([]ports.UserDetail, error) { return c.list, nil }

func (c *recordingCache) SetList(_ context.Context, users []ports.UserDetail) error {
	c.list = users
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, id int64) error {
	delete(c.users, id)
	c.list = nil
	c.invalidations = append(c.invalidations, id)
	return nil
}

var _ ports.UserRepository = (*stubUserRepo)(nil)
var _ ports.UserCache = (*recordingCache)(nil)
