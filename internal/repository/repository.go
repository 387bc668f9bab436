package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aebalz/wellmind-tracker/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate value")
)

// WellnessRepositoryInterface defines the record store used by the wellness engine.
// Every list is ordered by recorded_at DESC, ties broken by id DESC.
type WellnessRepositoryInterface interface {
	CreateRecord(ctx context.Context, record *model.WellnessRecord) (*model.WellnessRecord, error)
	GetRecordsByUser(ctx context.Context, userID uint, limit, offset int) ([]model.WellnessRecord, int64, error)
	GetRecordsByUserSince(ctx context.Context, userID uint, since time.Time) ([]model.WellnessRecord, error)
	GetRecordsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]model.WellnessRecord, error)
	GetLatestRecord(ctx context.Context, userID uint) (*model.WellnessRecord, error)
	GetRecordsSince(ctx context.Context, since time.Time) ([]model.WellnessRecord, error)
	GetHighStressRecords(ctx context.Context, limit, offset int) ([]model.WellnessRecord, int64, error)
}

// UserRepositoryInterface defines account storage.
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	Lookup(ctx context.Context, id uint) (*model.UserContact, error)
}
