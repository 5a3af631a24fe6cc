package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourlog/internal/model"
	"tourlog/internal/repository"
)

type fakeTx struct{}

type fakeTxKey struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}

func inFakeTx(ctx context.Context) bool {
	in, _ := ctx.Value(fakeTxKey{}).(bool)
	return in
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, f repository.AuditFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if f.Action == "" || e.Action == f.Action {
			out = append(out, e)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	end := min(offset+limit, len(out))
	return out[offset:end], total, nil
}

func (r *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeUserRepo struct {
	users []model.User
	// lockedInTx counts LockRegistration calls made inside a transaction
	lockedInTx int
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(context.Context) ([]model.User, error) {
	return append([]model.User(nil), r.users...), nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) { return int64(len(r.users)), nil }

func (r *fakeUserRepo) LockRegistration(ctx context.Context) error {
	if !inFakeTx(ctx) {
		return errors.New("registration lock taken outside a transaction")
	}
	r.lockedInTx++
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeRecordRepo honours exact-match governorate filtering only
type fakeRecordRepo struct {
	records []model.Record
	next    int64
}

func (r *fakeRecordRepo) Create(_ context.Context, rec *model.Record) error {
	r.next++
	rec.ID = uuid.New()
	rec.RecordNumber = r.next
	rec.CreatedAt, rec.UpdatedAt = time.Now(), time.Now()
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRecordRepo) List(ctx context.Context) ([]model.Record, error) {
	return r.Search(ctx, repository.RecordFilter{})
}

func (r *fakeRecordRepo) Search(_ context.Context, f repository.RecordFilter) ([]model.Record, error) {
	out := make([]model.Record, 0, len(r.records))
	for _, rec := range r.records {
		if f.Governorate != nil && rec.Governorate != *f.Governorate {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeRecordRepo) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error) {
	for i := range r.records {
		if r.records[i].ID != id {
			continue
		}
		for col, v := range fields {
			switch col {
			case "first_name":
				r.records[i].FirstName = v.(string)
			case "governorate":
				r.records[i].Governorate = v.(string)
			case "tour_date":
				r.records[i].TourDate = v.(time.Time)
			}
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeRecordRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRecordRepo) Count(ctx context.Context, f repository.RecordFilter) (int64, error) {
	recs, _ := r.Search(ctx, f)
	return int64(len(recs)), nil
}

func (r *fakeRecordRepo) CountGrouped(_ context.Context, groupBy string, _ repository.RecordFilter, _ int) ([]model.GroupCount, error) {
	counts := map[string]int64{}
	var keys []string
	for _, rec := range r.records {
		if counts[rec.Governorate] == 0 {
			keys = append(keys, rec.Governorate)
		}
		counts[rec.Governorate]++
	}
	out := make([]model.GroupCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.GroupCount{Key: k, Count: counts[k]})
	}
	return out, nil
}

func (r *fakeRecordRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if !rec.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeRefRepo[T repository.ReferenceEntry, PT referenceEntity[T]] struct {
	entries []T
}

func (r *fakeRefRepo[T, PT]) Create(_ context.Context, entry *T) error {
	_, name := PT(entry).Identity()
	for i := range r.entries {
		if _, n := PT(&r.entries[i]).Identity(); n == name {
			return repository.ErrDuplicate
		}
	}
	switch e := any(entry).(type) {
	case *model.PoliceStation:
		e.ID = uuid.New()
	case *model.Port:
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeRefRepo[T, PT]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	for i := range r.entries {
		if eid, _ := PT(&r.entries[i]).Identity(); eid == id {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRefRepo[T, PT]) FindByName(_ context.Context, name string) (*T, error) {
	for i := range r.entries {
		if _, n := PT(&r.entries[i]).Identity(); n == name {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRefRepo[T, PT]) List(context.Context) ([]T, error) {
	return append([]T(nil), r.entries...), nil
}

func (r *fakeRefRepo[T, PT]) Count(context.Context) (int64, error) { return int64(len(r.entries)), nil }

func (r *fakeRefRepo[T, PT]) Update(_ context.Context, entry *T) error {
	id, _ := PT(entry).Identity()
	for i := range r.entries {
		if eid, _ := PT(&r.entries[i]).Identity(); eid == id {
			r.entries[i] = *entry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeRefRepo[T, PT]) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	for i := range r.entries {
		if eid, _ := PT(&r.entries[i]).Identity(); eid == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type recordedEvent struct {
	name string
	data interface{}
}

type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.events = append(p.events, recordedEvent{event, data})
}

func (p *recordingPublisher) names() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.name)
	}
	return out
}

func actor() Actor {
	id := uuid.New()
	return Actor{ID: &id, Username: "operator"}
}

func validRecord() CreateRecordRequest {
	return CreateRecordRequest{
		OutgoingNumber: "OUT-1",
		FirstName:      "A",
		SecondName:     "B",
		ThirdName:      "C",
		FourthName:     "D",
		TourDate:       "2024-01-01",
		Rank:           "Captain",
		Governorate:    "X",
	}
}
