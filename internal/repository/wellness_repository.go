package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aebalz/wellmind-tracker/internal/model"
)

const newestFirst = "recorded_at DESC, id DESC"

// WellnessRepository implements WellnessRepositoryInterface on top of gorm.
type WellnessRepository struct {
	DB *gorm.DB
}

// NewWellnessRepository creates a new WellnessRepository.
func NewWellnessRepository(db *gorm.DB) WellnessRepositoryInterface {
	return &WellnessRepository{DB: db}
}

// CreateRecord inserts a record. The database assigns the ID.
func (r *WellnessRepository) CreateRecord(ctx context.Context, record *model.WellnessRecord) (*model.WellnessRecord, error) {
	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("error creating wellness record: %w", err)
	}
	return record, nil
}

// GetRecordsByUser returns one page of a user's history plus the total count.
func (r *WellnessRepository) GetRecordsByUser(ctx context.Context, userID uint, limit, offset int) ([]model.WellnessRecord, int64, error) {
	var records []model.WellnessRecord
	var totalCount int64

	query := r.DB.WithContext(ctx).Model(&model.WellnessRecord{}).Scopes(forUser(userID)).Session(&gorm.Session{})
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting wellness records: %w", err)
	}

	if err := query.Scopes(paginate(limit, offset)).Order(newestFirst).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("error listing wellness records: %w", err)
	}
	return records, totalCount, nil
}

// GetRecordsByUserSince returns a user's records with recorded_at >= since.
func (r *WellnessRepository) GetRecordsByUserSince(ctx context.Context, userID uint, since time.Time) ([]model.WellnessRecord, error) {
	var records []model.WellnessRecord
	err := r.DB.WithContext(ctx).
		Scopes(forUser(userID), recordedSince(since)).
		Order(newestFirst).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing recent wellness records: %w", err)
	}
	return records, nil
}

// GetRecordsForPeriod returns a user's records with start <= recorded_at <= end.
func (r *WellnessRepository) GetRecordsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]model.WellnessRecord, error) {
	var records []model.WellnessRecord
	err := r.DB.WithContext(ctx).
		Scopes(forUser(userID)).
		Where("recorded_at BETWEEN ? AND ?", start, end).
		Order(newestFirst).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing wellness records for period: %w", err)
	}
	return records, nil
}

// GetLatestRecord returns the newest record of a user or ErrNotFound.
func (r *WellnessRepository) GetLatestRecord(ctx context.Context, userID uint) (*model.WellnessRecord, error) {
	var record model.WellnessRecord
	err := r.DB.WithContext(ctx).Scopes(forUser(userID)).Order(newestFirst).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching latest wellness record: %w", err)
	}
	return &record, nil
}

// GetRecordsSince returns every user's records with recorded_at >= since.
func (r *WellnessRepository) GetRecordsSince(ctx context.Context, since time.Time) ([]model.WellnessRecord, error) {
	var records []model.WellnessRecord
	if err := r.DB.WithContext(ctx).Scopes(recordedSince(since)).Order(newestFirst).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing wellness records: %w", err)
	}
	return records, nil
}

// GetHighStressRecords pages through records at or above the high stress threshold.
func (r *WellnessRepository) GetHighStressRecords(ctx context.Context, limit, offset int) ([]model.WellnessRecord, int64, error) {
	var records []model.WellnessRecord
	var totalCount int64

	query := r.DB.WithContext(ctx).Model(&model.WellnessRecord{}).Scopes(highStress).Session(&gorm.Session{})
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting high stress records: %w", err)
	}
	if err := query.Scopes(paginate(limit, offset)).Order(newestFirst).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("error listing high stress records: %w", err)
	}
	return records, totalCount, nil
}

func forUser(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func recordedSince(since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recorded_at >= ?", since)
	}
}

func highStress(db *gorm.DB) *gorm.DB {
	return db.Where("stress_level >= ?", model.HighStressThreshold)
}

func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

// Note: the composite (user_id, recorded_at DESC) index declared on the model
// serves every per-user query above. GetRecordsSince and GetHighStressRecords
// scan by recorded_at; if the alert review grows slow, a partial index on
// stress_level >= 8 is the next thing to add.
