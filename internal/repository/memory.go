package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aebalz/wellmind-tracker/internal/model"
)

var (
	_ WellnessRepositoryInterface = (*MemoryWellnessRepository)(nil)
	_ UserRepositoryInterface     = (*MemoryUserRepository)(nil)
)

// MemoryWellnessRepository keeps records in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
type MemoryWellnessRepository struct {
	mu      sync.RWMutex
	records []model.WellnessRecord
	nextID  uint
}

// NewMemoryWellnessRepository creates an empty in-memory record store.
func NewMemoryWellnessRepository() *MemoryWellnessRepository {
	return &MemoryWellnessRepository{nextID: 1}
}

func (r *MemoryWellnessRepository) CreateRecord(_ context.Context, record *model.WellnessRecord) (*model.WellnessRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, *record)
	return record, nil
}

func (r *MemoryWellnessRepository) GetRecordsByUser(_ context.Context, userID uint, limit, offset int) ([]model.WellnessRecord, int64, error) {
	matched := r.filter(func(rec model.WellnessRecord) bool { return rec.UserID == userID })
	return page(matched, limit, offset), int64(len(matched)), nil
}

func (r *MemoryWellnessRepository) GetRecordsByUserSince(_ context.Context, userID uint, since time.Time) ([]model.WellnessRecord, error) {
	return r.filter(func(rec model.WellnessRecord) bool {
		return rec.UserID == userID && !rec.RecordedAt.Before(since)
	}), nil
}

func (r *MemoryWellnessRepository) GetRecordsForPeriod(_ context.Context, userID uint, start, end time.Time) ([]model.WellnessRecord, error) {
	return r.filter(func(rec model.WellnessRecord) bool {
		return rec.UserID == userID && !rec.RecordedAt.Before(start) && !rec.RecordedAt.After(end)
	}), nil
}

func (r *MemoryWellnessRepository) GetLatestRecord(_ context.Context, userID uint) (*model.WellnessRecord, error) {
	matched := r.filter(func(rec model.WellnessRecord) bool { return rec.UserID == userID })
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	latest := matched[0]
	return &latest, nil
}

func (r *MemoryWellnessRepository) GetRecordsSince(_ context.Context, since time.Time) ([]model.WellnessRecord, error) {
	return r.filter(func(rec model.WellnessRecord) bool { return !rec.RecordedAt.Before(since) }), nil
}

func (r *MemoryWellnessRepository) GetHighStressRecords(_ context.Context, limit, offset int) ([]model.WellnessRecord, int64, error) {
	matched := r.filter(func(rec model.WellnessRecord) bool { return rec.StressLevel >= model.HighStressThreshold })
	return page(matched, limit, offset), int64(len(matched)), nil
}

// filter returns copies of the matching records, newest first.
func (r *MemoryWellnessRepository) filter(keep func(model.WellnessRecord) bool) []model.WellnessRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.WellnessRecord{}
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out
}

func page(records []model.WellnessRecord, limit, offset int) []model.WellnessRecord {
	if offset > 0 {
		if offset >= len(records) {
			return []model.WellnessRecord{}
		}
		records = records[offset:]
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// MemoryUserRepository keeps accounts in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uint]model.User
	byEmail map[string]uint
	nextID  uint
}

// NewMemoryUserRepository creates an empty in-memory account store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[uint]model.User),
		byEmail: make(map[string]uint),
		nextID:  1,
	}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, ErrDuplicate
	}
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *MemoryUserRepository) Lookup(ctx context.Context, id uint) (*model.UserContact, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contact := user.Contact()
	return &contact, nil
}
