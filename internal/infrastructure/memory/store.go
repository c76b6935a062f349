// Package memory implementa los puertos de persistencia en memoria, con la misma semántica
// que el adaptador PostgreSQL (unicidad de email y de reporte por día, orden y joins).
// Lo usan los tests de casos de uso y de HTTP.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reportes-api/internal/application/usecase"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
)

var (
	_ repository.UserRepository   = (*Users)(nil)
	_ repository.RecordRepository = (*Records)(nil)
	_ usecase.TxRunner            = (*Store)(nil)
)

// Store estado compartido entre Users y Records.
type Store struct {
	mu      sync.RWMutex
	users   map[string]entity.User
	records map[string]entity.Record

	// Fail, si no es nil, lo devuelve la próxima escritura, Count o ListAll de Records.
	Fail error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{users: map[string]entity.User{}, records: map[string]entity.Record{}}
}

// Users vista UserRepository del store.
func (s *Store) Users() *Users { return &Users{s: s} }

// Records vista RecordRepository del store.
func (s *Store) Records() *Records { return &Records{s: s} }

// Run ejecuta fn contra el mismo store (sin rollback).
func (s *Store) Run(_ context.Context, fn func(repository.UserRepository, repository.RecordRepository) error) error {
	return fn(s.Users(), s.Records())
}

// RecordCount número de reportes almacenados.
func (s *Store) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Users implementación en memoria de UserRepository.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if entity.NormalizeEmail(existing.Email) == entity.NormalizeEmail(u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if u.AdminID != nil {
		if _, ok := r.s.users[*u.AdminID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	r.s.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := cloneUser(u)
	return &c, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if entity.NormalizeEmail(u.Email) == entity.NormalizeEmail(email) {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *Users) ListManagedUsers(_ context.Context, adminID string) ([]*entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.ManagedBy(adminID) }), nil
}

func (r *Users) CountManagedUsers(ctx context.Context, adminID string) (int, error) {
	list, _ := r.ListManagedUsers(ctx, adminID)
	return len(list), nil
}

func (r *Users) ListAdmins(context.Context) ([]*entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.IsAdmin() }), nil
}

func (r *Users) ListAll(context.Context) ([]*entity.User, error) {
	return r.filter(func(*entity.User) bool { return true }), nil
}

func (r *Users) UpdateRole(_ context.Context, id string, role entity.Role, adminID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	u.AdminID = copyPtr(adminID)
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.AdminID != nil && *u.AdminID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *Users) filter(keep func(*entity.User) bool) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		c := cloneUser(u)
		if keep(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Records implementación en memoria de RecordRepository.
type Records struct{ s *Store }

func (r *Records) Create(_ context.Context, rec *entity.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFail(); err != nil {
		return err
	}
	for _, existing := range r.s.records {
		if existing.UserID == rec.UserID && existing.ReportDay == rec.ReportDay {
			return domain.ErrAlreadySubmittedToday
		}
	}
	r.s.records[rec.ID] = cloneRecord(*rec)
	return nil
}

func (r *Records) ExistsForUserBetween(_ context.Context, userID string, from, to time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rec := range r.s.records {
		if rec.UserID == userID && !rec.CreatedAt.Before(from) && rec.CreatedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Records) Count(_ context.Context, f repository.RecordFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFail(); err != nil {
		return 0, err
	}
	return len(r.s.match(f)), nil
}

func (r *Records) List(_ context.Context, f repository.RecordFilter, limit, offset int) ([]entity.OwnedRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := r.s.match(f)
	if offset >= len(all) {
		return []entity.OwnedRecord{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *Records) ListAll(_ context.Context, f repository.RecordFilter) ([]entity.OwnedRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFail(); err != nil {
		return nil, err
	}
	return r.s.match(f), nil
}

func (r *Records) SummaryByUser(_ context.Context, f repository.RecordFilter) ([]repository.UserTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	index := map[string]int{}
	var out []repository.UserTotals
	for _, rec := range r.s.match(f) {
		i, ok := index[rec.UserID]
		if !ok {
			t := repository.UserTotals{Owner: entity.Owner{ID: rec.UserID}, Totals: map[string]decimal.Decimal{},
				FirstAt: rec.CreatedAt, LastAt: rec.CreatedAt}
			if rec.Owner != nil {
				t.Owner, t.OwnerFound = *rec.Owner, true
			}
			i = len(out)
			index[rec.UserID] = i
			out = append(out, t)
		}
		t := &out[i]
		t.Records++
		if rec.CreatedAt.Before(t.FirstAt) {
			t.FirstAt = rec.CreatedAt
		}
		if rec.CreatedAt.After(t.LastAt) {
			t.LastAt = rec.CreatedAt
		}
		for k, v := range rec.Numbers {
			t.Totals[k] = t.Totals[k].Add(v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner.Name != out[j].Owner.Name {
			return out[i].Owner.Name < out[j].Owner.Name
		}
		return out[i].Owner.ID < out[j].Owner.ID
	})
	return out, nil
}

func (r *Records) GetByID(_ context.Context, id string) (*entity.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	c := cloneRecord(rec)
	return &c, nil
}

func (r *Records) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.records, id)
	return nil
}

func (r *Records) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rec := range r.s.records {
		if rec.UserID == userID {
			delete(r.s.records, id)
			n++
		}
	}
	return n, nil
}

// match aplica el filtro y ordena por created_at DESC, id DESC. Requiere el lock tomado.
func (s *Store) match(f repository.RecordFilter) []entity.OwnedRecord {
	allowed := make(map[string]bool, len(f.UserIDs))
	for _, id := range f.UserIDs {
		allowed[id] = true
	}
	out := make([]entity.OwnedRecord, 0)
	for _, rec := range s.records {
		if !f.AllUsers && !allowed[rec.UserID] {
			continue
		}
		if f.From != nil && rec.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && rec.CreatedAt.After(*f.To) {
			continue
		}
		owned := entity.OwnedRecord{Record: cloneRecord(rec)}
		if u, ok := s.users[rec.UserID]; ok {
			owned.Owner = &entity.Owner{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		}
		out = append(out, owned)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) takeFail() error {
	err := s.Fail
	s.Fail = nil
	return err
}

func cloneUser(u entity.User) entity.User {
	u.AdminID = copyPtr(u.AdminID)
	return u
}

func cloneRecord(r entity.Record) entity.Record {
	nums := make(map[string]decimal.Decimal, len(r.Numbers))
	for k, v := range r.Numbers {
		nums[k] = v
	}
	texts := make(map[string]string, len(r.Texts))
	for k, v := range r.Texts {
		texts[k] = v
	}
	r.Numbers, r.Texts = nums, texts
	return r
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
