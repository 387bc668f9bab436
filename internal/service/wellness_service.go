package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/metrics"
	"github.com/aebalz/wellmind-tracker/internal/model"
	"github.com/aebalz/wellmind-tracker/internal/repository"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
)

// UserDirectory resolves a user ID to the contact details used for alerts.
type UserDirectory interface {
	Lookup(ctx context.Context, userID uint) (*model.UserContact, error)
}

// NotificationSink receives alert notifications. Delivery is best effort.
type NotificationSink interface {
	Send(ctx context.Context, contact string, reasons []string) error
}

// WellnessServiceInterface defines the wellness engine operations.
type WellnessServiceInterface interface {
	SubmitRecord(ctx context.Context, userID uint, input model.WellnessInput) (*model.EvaluatedRecord, error)
	AverageWellness(ctx context.Context, userID uint, windowStart time.Time) (*float64, error)
	FindRecordsRequiringAlert(ctx context.Context, withinLastDays int) ([]model.EvaluatedRecord, error)
	ListUserRecords(ctx context.Context, userID uint, page, size int) (*RecordPage, error)
	LatestRecord(ctx context.Context, userID uint) (*model.EvaluatedRecord, error)
	RecordsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]model.EvaluatedRecord, error)
	HighStressRecords(ctx context.Context, page, size int) (*RecordPage, error)
	UserStatistics(ctx context.Context, userID uint, windowStart time.Time) (*Statistics, error)
	ExportUserRecords(ctx context.Context, userID uint, format string) ([]byte, string, error)
}

// RecordPage is one page of evaluated records.
type RecordPage struct {
	Items      []model.EvaluatedRecord `json:"items"`
	Page       int                     `json:"page"`
	Size       int                     `json:"size"`
	TotalItems int64                   `json:"total_items"`
	TotalPages int                     `json:"total_pages"`
}

// Statistics summarises a user's records within a window.
type Statistics struct {
	UserID                     uint                         `json:"user_id"`
	WindowStart                time.Time                    `json:"window_start"`
	RecordCount                int                          `json:"record_count"`
	AverageMood                *float64                     `json:"average_mood"`
	AverageStress              *float64                     `json:"average_stress"`
	AverageEnergy              *float64                     `json:"average_energy"`
	AverageWellness            *float64                     `json:"average_wellness"`
	Classification             *model.Classification        `json:"classification"`
	AlertCount                 int                          `json:"alert_count"`
	ClassificationDistribution map[model.Classification]int `json:"classification_distribution"`
}

// WellnessService implements WellnessServiceInterface.
type WellnessService struct {
	Records  repository.WellnessRepositoryInterface
	Users    UserDirectory
	Notifier NotificationSink
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewWellnessService creates a new WellnessService.
func NewWellnessService(records repository.WellnessRepositoryInterface, users UserDirectory, notifier NotificationSink, logger zerolog.Logger) *WellnessService {
	return &WellnessService{
		Records:  records,
		Users:    users,
		Notifier: notifier,
		Logger:   logger.With().Str("component", "wellness").Logger(),
		Now:      time.Now,
	}
}

// SubmitRecord validates and stores a check-in, then notifies when the record
// crosses an alert threshold. Validation and unknown users abort before any
// write; notification failures are logged and never returned.
func (s *WellnessService) SubmitRecord(ctx context.Context, userID uint, input model.WellnessInput) (*model.EvaluatedRecord, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	contact, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	record := model.NewWellnessRecord(userID, input, s.Now())
	stored, err := s.Records.CreateRecord(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error persisting wellness record: %w", err)
	}
	metrics.RecordsSubmitted.Inc()

	evaluated := model.Evaluate(*stored)
	s.Logger.Info().
		Uint("user_id", userID).
		Uint("record_id", stored.ID).
		Float64("score", evaluated.WellnessScore).
		Str("classification", string(evaluated.Classification)).
		Msg("wellness record created")

	if evaluated.HasAlert {
		s.dispatchAlert(ctx, contact, stored.ID, evaluated.AlertReasons)
	}
	return &evaluated, nil
}

func (s *WellnessService) dispatchAlert(ctx context.Context, contact *model.UserContact, recordID uint, reasons []string) {
	for _, reason := range reasons {
		metrics.AlertsRaised.WithLabelValues(reason).Inc()
	}
	s.Logger.Warn().
		Uint("user_id", contact.ID).
		Uint("record_id", recordID).
		Strs("reasons", reasons).
		Msg("wellness alert raised")

	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, contact.ContactIdentifier, reasons); err != nil {
		metrics.NotificationFailures.WithLabelValues("dispatch").Inc()
		s.Logger.Warn().Err(err).
			Uint("user_id", contact.ID).
			Uint("record_id", recordID).
			Msg("alert notification not dispatched")
	}
}

// AverageWellness is the mean per-record wellness score since windowStart.
// It returns nil when the window holds no records.
func (s *WellnessService) AverageWellness(ctx context.Context, userID uint, windowStart time.Time) (*float64, error) {
	records, err := s.Records.GetRecordsByUserSince(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("error loading records for average: %w", err)
	}
	return averageScore(records), nil
}

func averageScore(records []model.WellnessRecord) *float64 {
	if len(records) == 0 {
		return nil
	}
	var sum float64
	for _, r := range records {
		sum += r.WellnessScore()
	}
	avg := sum / float64(len(records))
	return &avg
}

// FindRecordsRequiringAlert returns every user's alerting records from the
// last withinLastDays days, newest first.
func (s *WellnessService) FindRecordsRequiringAlert(ctx context.Context, withinLastDays int) ([]model.EvaluatedRecord, error) {
	if withinLastDays < 1 {
		return nil, NewValidationError("days", "min=1", "must be at least 1")
	}

	since := s.Now().Add(-time.Duration(withinLastDays) * 24 * time.Hour)
	records, err := s.Records.GetRecordsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("error loading records for alert review: %w", err)
	}

	alerting := make([]model.WellnessRecord, 0, len(records))
	for _, r := range records {
		if model.RequiresAlert(r.MoodLevel, r.StressLevel, r.SleepHours) {
			alerting = append(alerting, r)
		}
	}
	return model.EvaluateAll(alerting), nil
}

// ListUserRecords pages through a user's history, newest first.
func (s *WellnessService) ListUserRecords(ctx context.Context, userID uint, page, size int) (*RecordPage, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	page, size = normalizePage(page, size)
	records, total, err := s.Records.GetRecordsByUser(ctx, userID, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("error listing user records: %w", err)
	}
	return newRecordPage(records, page, size, total), nil
}

// LatestRecord returns the newest record of a user.
func (s *WellnessService) LatestRecord(ctx context.Context, userID uint) (*model.EvaluatedRecord, error) {
	record, err := s.Records.GetLatestRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no wellness record for user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("error loading latest record: %w", err)
	}
	evaluated := model.Evaluate(*record)
	return &evaluated, nil
}

// RecordsForPeriod returns a user's records between start and end inclusive.
func (s *WellnessService) RecordsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]model.EvaluatedRecord, error) {
	if end.Before(start) {
		return nil, NewValidationError("end", "gtefield=start", "must not be before start")
	}
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.Records.GetRecordsForPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing records for period: %w", err)
	}
	return model.EvaluateAll(records), nil
}

// HighStressRecords pages through all records at or above the stress threshold.
func (s *WellnessService) HighStressRecords(ctx context.Context, page, size int) (*RecordPage, error) {
	page, size = normalizePage(page, size)
	records, total, err := s.Records.GetHighStressRecords(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("error listing high stress records: %w", err)
	}
	return newRecordPage(records, page, size, total), nil
}

// UserStatistics aggregates a user's records since windowStart.
func (s *WellnessService) UserStatistics(ctx context.Context, userID uint, windowStart time.Time) (*Statistics, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.Records.GetRecordsByUserSince(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("error loading records for statistics: %w", err)
	}

	stats := &Statistics{
		UserID:                     userID,
		WindowStart:                windowStart,
		RecordCount:                len(records),
		ClassificationDistribution: map[model.Classification]int{},
	}
	if len(records) == 0 {
		return stats, nil
	}

	var mood, stress, energy int
	for _, r := range records {
		mood += r.MoodLevel
		stress += r.StressLevel
		energy += r.EnergyLevel
		ev := model.Evaluate(r)
		stats.ClassificationDistribution[ev.Classification]++
		if ev.HasAlert {
			stats.AlertCount++
		}
	}
	n := float64(len(records))
	avgMood, avgStress, avgEnergy := float64(mood)/n, float64(stress)/n, float64(energy)/n
	stats.AverageMood = &avgMood
	stats.AverageStress = &avgStress
	stats.AverageEnergy = &avgEnergy
	stats.AverageWellness = averageScore(records)
	class := model.Classify(*stats.AverageWellness)
	stats.Classification = &class
	return stats, nil
}

// ExportUserRecords renders a user's full history as CSV or JSON.
func (s *WellnessService) ExportUserRecords(ctx context.Context, userID uint, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "json" {
		return nil, "", NewValidationError("format", "oneof=csv json", "must be csv or json")
	}
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, "", err
	}

	records, _, err := s.Records.GetRecordsByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, "", fmt.Errorf("error loading records for export: %w", err)
	}
	evaluated := model.EvaluateAll(records)

	if format == "json" {
		data, err := json.Marshal(evaluated)
		if err != nil {
			return nil, "", fmt.Errorf("error encoding export: %w", err)
		}
		return data, "application/json", nil
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	header := []string{"ID", "RecordedAt", "MoodLevel", "StressLevel", "EnergyLevel", "SleepHours", "SleepQuality", "WellnessScore", "Classification", "AlertReasons", "Notes"}
	if err := writer.Write(header); err != nil {
		return nil, "", err
	}
	for _, r := range evaluated {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.RecordedAt.Format(time.RFC3339),
			strconv.Itoa(r.MoodLevel),
			strconv.Itoa(r.StressLevel),
			strconv.Itoa(r.EnergyLevel),
			optionalFloat(r.SleepHours),
			optionalInt(r.SleepQuality),
			strconv.FormatFloat(r.WellnessScore, 'f', 2, 64),
			string(r.Classification),
			strings.Join(r.AlertReasons, ";"),
			r.Notes,
		}
		if err := writer.Write(row); err != nil {
			return nil, "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}
	return buffer.Bytes(), "text/csv", nil
}

func (s *WellnessService) lookupUser(ctx context.Context, userID uint) (*model.UserContact, error) {
	contact, err := s.Users.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("error looking up user %d: %w", userID, err)
	}
	return contact, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func newRecordPage(records []model.WellnessRecord, page, size int, total int64) *RecordPage {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &RecordPage{
		Items:      model.EvaluateAll(records),
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
