package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aebalz/wellmind-tracker/internal/model"
	"github.com/aebalz/wellmind-tracker/internal/repository"
)

// --- MockWellnessRepository ---
var _ repository.WellnessRepositoryInterface = (*MockWellnessRepository)(nil)

type MockWellnessRepository struct {
	CreateRecordFunc          func(ctx context.Context, record *model.WellnessRecord) (*model.WellnessRecord, error)
	GetRecordsByUserFunc      func(ctx context.Context, userID uint, limit, offset int) ([]model.WellnessRecord, int64, error)
	GetRecordsByUserSinceFunc func(ctx context.Context, userID uint, since time.Time) ([]model.WellnessRecord, error)
	GetRecordsForPeriodFunc   func(ctx context.Context, userID uint, start, end time.Time) ([]model.WellnessRecord, error)
	GetLatestRecordFunc       func(ctx context.Context, userID uint) (*model.WellnessRecord, error)
	GetRecordsSinceFunc       func(ctx context.Context, since time.Time) ([]model.WellnessRecord, error)
	GetHighStressRecordsFunc  func(ctx context.Context, limit, offset int) ([]model.WellnessRecord, int64, error)

	CreateRecordCalls int32
}

func (m *MockWellnessRepository) CreateRecord(ctx context.Context, record *model.WellnessRecord) (*model.WellnessRecord, error) {
	atomic.AddInt32(&m.CreateRecordCalls, 1)
	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(ctx, record)
	}
	return nil, errors.New("CreateRecordFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetRecordsByUser(ctx context.Context, userID uint, limit, offset int) ([]model.WellnessRecord, int64, error) {
	if m.GetRecordsByUserFunc != nil {
		return m.GetRecordsByUserFunc(ctx, userID, limit, offset)
	}
	return nil, 0, errors.New("GetRecordsByUserFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetRecordsByUserSince(ctx context.Context, userID uint, since time.Time) ([]model.WellnessRecord, error) {
	if m.GetRecordsByUserSinceFunc != nil {
		return m.GetRecordsByUserSinceFunc(ctx, userID, since)
	}
	return nil, errors.New("GetRecordsByUserSinceFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetRecordsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]model.WellnessRecord, error) {
	if m.GetRecordsForPeriodFunc != nil {
		return m.GetRecordsForPeriodFunc(ctx, userID, start, end)
	}
	return nil, errors.New("GetRecordsForPeriodFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetLatestRecord(ctx context.Context, userID uint) (*model.WellnessRecord, error) {
	if m.GetLatestRecordFunc != nil {
		return m.GetLatestRecordFunc(ctx, userID)
	}
	return nil, errors.New("GetLatestRecordFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetRecordsSince(ctx context.Context, since time.Time) ([]model.WellnessRecord, error) {
	if m.GetRecordsSinceFunc != nil {
		return m.GetRecordsSinceFunc(ctx, since)
	}
	return nil, errors.New("GetRecordsSinceFunc not implemented in mock")
}

func (m *MockWellnessRepository) GetHighStressRecords(ctx context.Context, limit, offset int) ([]model.WellnessRecord, int64, error) {
	if m.GetHighStressRecordsFunc != nil {
		return m.GetHighStressRecordsFunc(ctx, limit, offset)
	}
	return nil, 0, errors.New("GetHighStressRecordsFunc not implemented in mock")
}

// --- MockUserDirectory ---
var _ UserDirectory = (*MockUserDirectory)(nil)

type MockUserDirectory struct {
	LookupFunc  func(ctx context.Context, userID uint) (*model.UserContact, error)
	LookupCalls int32
}

func (m *MockUserDirectory) Lookup(ctx context.Context, userID uint) (*model.UserContact, error) {
	atomic.AddInt32(&m.LookupCalls, 1)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, userID)
	}
	return nil, errors.New("LookupFunc not implemented in mock")
}

// --- MockNotificationSink ---
var _ NotificationSink = (*MockNotificationSink)(nil)

type sentNotification struct {
	Contact string
	Reasons []string
}

type MockNotificationSink struct {
	SendFunc  func(ctx context.Context, contact string, reasons []string) error
	SendCalls int32

	mu   sync.Mutex
	Sent []sentNotification
}

func (m *MockNotificationSink) Send(ctx context.Context, contact string, reasons []string) error {
	atomic.AddInt32(&m.SendCalls, 1)
	m.mu.Lock()
	m.Sent = append(m.Sent, sentNotification{Contact: contact, Reasons: append([]string(nil), reasons...)})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, contact, reasons)
	}
	return nil
}

// --- MockUserRepository ---
var _ repository.UserRepositoryInterface = (*MockUserRepository)(nil)

type MockUserRepository struct {
	CreateUserFunc     func(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByIDFunc    func(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	LookupFunc         func(ctx context.Context, id uint) (*model.UserContact, error)

	CreateUserCalls int32
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	atomic.AddInt32(&m.CreateUserCalls, 1)
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return nil, errors.New("CreateUserFunc not implemented in mock")
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, errors.New("GetUserByIDFunc not implemented in mock")
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, errors.New("GetUserByEmailFunc not implemented in mock")
}

func (m *MockUserRepository) Lookup(ctx context.Context, id uint) (*model.UserContact, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, id)
	}
	return nil, errors.New("LookupFunc not implemented in mock")
}
