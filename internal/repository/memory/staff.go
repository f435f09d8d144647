package memory

import (
	"context"
	"strings"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
)

type applicationRepo struct {
	t   *table[domain.StaffApplication]
	now func() time.Time
}

func cloneApplication(app domain.StaffApplication) domain.StaffApplication {
	app.Especialidades = copyStrings(app.Especialidades)
	app.FotosReferencia = copyStrings(app.FotosReferencia)
	return app
}

func (r *applicationRepo) Create(_ context.Context, app *domain.StaffApplication) error {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = r.now()
	}
	return r.t.insert(app.ID, cloneApplication(*app))
}

func (r *applicationRepo) GetByID(_ context.Context, id string) (*domain.StaffApplication, error) {
	app, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	out := cloneApplication(app)
	return &out, nil
}

func (r *applicationRepo) List(_ context.Context) ([]domain.StaffApplication, error) {
	out := r.t.list(nil, func(app domain.StaffApplication) time.Time { return app.CreatedAt })
	for i := range out {
		out[i] = cloneApplication(out[i])
	}
	return out, nil
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id string, from, to domain.ApplicationStatus) error {
	return r.t.update(id, func(app domain.StaffApplication) (domain.StaffApplication, error) {
		if app.Status != from {
			return app, repository.ErrStaleState
		}
		app.Status = to
		return app, nil
	})
}

func (r *applicationRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type staffUserRepo struct {
	t   *table[domain.StaffUser]
	now func() time.Time
}

func cloneStaffUser(u domain.StaffUser) domain.StaffUser {
	if u.ApplicationID != nil {
		v := *u.ApplicationID
		u.ApplicationID = &v
	}
	u.ZonasAsignadas = nil
	u.ActividadesAsignadas = nil
	return u
}

func (r *staffUserRepo) Create(_ context.Context, user *domain.StaffUser) error {
	user.Email = strings.ToLower(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	user.UpdatedAt = user.CreatedAt
	return r.t.insertUnique(user.ID, cloneStaffUser(*user), func(u domain.StaffUser) bool {
		return u.Email == user.Email
	})
}

func (r *staffUserRepo) GetByID(_ context.Context, id string) (*domain.StaffUser, error) {
	u, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	out := cloneStaffUser(u)
	return &out, nil
}

func (r *staffUserRepo) GetByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	email = strings.ToLower(email)
	matched := r.t.list(func(u domain.StaffUser) bool { return u.Email == email }, staffCreated)
	if len(matched) == 0 {
		return nil, repository.ErrNotFound
	}
	out := cloneStaffUser(matched[0])
	return &out, nil
}

func staffCreated(u domain.StaffUser) time.Time { return u.CreatedAt }

func (r *staffUserRepo) List(_ context.Context, filter repository.StaffUserFilter) ([]domain.StaffUser, error) {
	out := r.t.list(func(u domain.StaffUser) bool {
		if filter.Role != nil && u.Role != *filter.Role {
			return false
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			return false
		}
		return true
	}, staffCreated)
	for i := range out {
		out[i] = cloneStaffUser(out[i])
	}
	return out, nil
}

func (r *staffUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	now := r.now()
	return r.t.update(id, func(u domain.StaffUser) (domain.StaffUser, error) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = now
		return u, nil
	})
}

func (r *staffUserRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type tokenRepo struct {
	t     *table[domain.ActivationToken]
	staff *table[domain.StaffUser]
	now   func() time.Time
}

func (r *tokenRepo) Create(_ context.Context, token *domain.ActivationToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now()
	}
	return r.t.insert(token.Token, *token)
}

func (r *tokenRepo) GetByToken(_ context.Context, token string) (*domain.ActivationToken, error) {
	t, err := r.t.get(token)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Redeem holds the token row lock while it activates the account, so a failed
// activation leaves the token unused.
func (r *tokenRepo) Redeem(_ context.Context, token, passwordHash string, at time.Time) error {
	now := r.now()
	return r.t.update(token, func(t domain.ActivationToken) (domain.ActivationToken, error) {
		if t.UsedAt != nil {
			return t, repository.ErrStaleState
		}
		err := r.staff.update(t.StaffID, func(u domain.StaffUser) (domain.StaffUser, error) {
			if u.IsActive {
				return u, repository.ErrStaleState
			}
			u.PasswordHash = passwordHash
			u.IsActive = true
			u.UpdatedAt = now
			return u, nil
		})
		if err != nil {
			return t, err
		}
		t.UsedAt = &at
		return t, nil
	})
}

func (r *tokenRepo) DeleteByStaff(_ context.Context, staffID string) error {
	matched := r.t.list(func(t domain.ActivationToken) bool { return t.StaffID == staffID },
		func(t domain.ActivationToken) time.Time { return t.CreatedAt })
	for _, t := range matched {
		_ = r.t.remove(t.Token)
	}
	return nil
}
