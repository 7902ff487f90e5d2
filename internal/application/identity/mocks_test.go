package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

type fakeTheaterRepo struct {
	theaters map[uuid.UUID]*identity.Theater
}

func newFakeTheaterRepo() *fakeTheaterRepo {
	return &fakeTheaterRepo{theaters: make(map[uuid.UUID]*identity.Theater)}
}

func (r *fakeTheaterRepo) Create(_ context.Context, theater *identity.Theater) error {
	r.theaters[theater.ID] = theater
	return nil
}

func (r *fakeTheaterRepo) Update(_ context.Context, theater *identity.Theater) error {
	if _, ok := r.theaters[theater.ID]; !ok {
		return shared.ErrNotFound
	}
	r.theaters[theater.ID] = theater
	return nil
}

func (r *fakeTheaterRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.theaters[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.theaters, id)
	return nil
}

func (r *fakeTheaterRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Theater, error) {
	theater, ok := r.theaters[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return theater, nil
}

func (r *fakeTheaterRepo) FindByCode(_ context.Context, code string) (*identity.Theater, error) {
	code = strings.ToUpper(code)
	for _, theater := range r.theaters {
		if theater.Code == code {
			return theater, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTheaterRepo) FindAll(_ context.Context, _ identity.TheaterFilter) ([]*identity.Theater, int64, error) {
	out := make([]*identity.Theater, 0, len(r.theaters))
	for _, theater := range r.theaters {
		out = append(out, theater)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTheaterRepo) FindActive(_ context.Context) ([]*identity.Theater, error) {
	var out []*identity.Theater
	for _, theater := range r.theaters {
		if theater.IsActive() {
			out = append(out, theater)
		}
	}
	return out, nil
}

func (r *fakeTheaterRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	return err == nil, nil
}

type fakeUserRepo struct {
	users     map[uuid.UUID]*identity.User
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *identity.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, theaterID uuid.UUID, username string) (*identity.User, error) {
	for _, user := range r.users {
		if user.TheaterID == theaterID && user.Username == username {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context, theaterID uuid.UUID, _ identity.UserFilter) ([]*identity.User, int64, error) {
	var out []*identity.User
	for _, user := range r.users {
		if user.TheaterID == theaterID {
			out = append(out, user)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, theaterID uuid.UUID, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, theaterID, username)
	return err == nil, nil
}

func (r *fakeUserRepo) SaveUserRoles(_ context.Context, _ *identity.User) error { return nil }

func (r *fakeUserRepo) LoadUserRoles(_ context.Context, _ *identity.User) error { return nil }

type fakeRoleRepo struct {
	roles map[uuid.UUID]*identity.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uuid.UUID]*identity.Role)}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *identity.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *identity.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return shared.ErrNotFound
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) FindByCode(_ context.Context, theaterID uuid.UUID, code string) (*identity.Role, error) {
	for _, role := range r.roles {
		if role.TheaterID == theaterID && role.Code == code {
			return role, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRoleRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	var out []*identity.Role
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) FindAll(_ context.Context, theaterID uuid.UUID) ([]*identity.Role, error) {
	var out []*identity.Role
	for _, role := range r.roles {
		if role.TheaterID == theaterID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, theaterID, code)
	return err == nil, nil
}

func (r *fakeRoleRepo) SavePermissions(_ context.Context, _ *identity.Role) error { return nil }

func (r *fakeRoleRepo) LoadPermissions(_ context.Context, _ *identity.Role) error { return nil }

var (
	_ identity.TheaterRepository = (*fakeTheaterRepo)(nil)
	_ identity.UserRepository    = (*fakeUserRepo)(nil)
	_ identity.RoleRepository    = (*fakeRoleRepo)(nil)
)
