package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aebalz/wellmind-tracker/internal/model"
)

func seedRecords(t *testing.T, repo *MemoryWellnessRepository, base time.Time) {
	t.Helper()
	ctx := context.Background()
	rows := []model.WellnessRecord{
		{UserID: 1, MoodLevel: 5, StressLevel: 9, EnergyLevel: 5, RecordedAt: base.Add(-48 * time.Hour)},
		{UserID: 1, MoodLevel: 6, StressLevel: 4, EnergyLevel: 6, RecordedAt: base.Add(-2 * time.Hour)},
		{UserID: 2, MoodLevel: 2, StressLevel: 8, EnergyLevel: 3, RecordedAt: base.Add(-1 * time.Hour)},
		{UserID: 1, MoodLevel: 8, StressLevel: 2, EnergyLevel: 8, RecordedAt: base.Add(-2 * time.Hour)},
	}
	for i := range rows {
		_, err := repo.CreateRecord(ctx, &rows[i])
		require.NoError(t, err)
	}
}

func TestMemoryWellnessRepository_AssignsDistinctIDs(t *testing.T) {
	repo := NewMemoryWellnessRepository()
	ctx := context.Background()

	a, err := repo.CreateRecord(ctx, &model.WellnessRecord{UserID: 1, MoodLevel: 5, StressLevel: 5, EnergyLevel: 5})
	require.NoError(t, err)
	b, err := repo.CreateRecord(ctx, &model.WellnessRecord{UserID: 1, MoodLevel: 5, StressLevel: 5, EnergyLevel: 5})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestMemoryWellnessRepository_Queries(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryWellnessRepository()
	seedRecords(t, repo, base)
	ctx := context.Background()

	t.Run("by user newest first with id tie-break", func(t *testing.T) {
		records, total, err := repo.GetRecordsByUser(ctx, 1, 0, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, records, 3)
		assert.Equal(t, uint(4), records[0].ID)
		assert.Equal(t, uint(2), records[1].ID)
		assert.Equal(t, uint(1), records[2].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		records, total, err := repo.GetRecordsByUser(ctx, 1, 2, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, records, 1)
		assert.Equal(t, uint(1), records[0].ID)

		records, _, err = repo.GetRecordsByUser(ctx, 1, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("since is inclusive", func(t *testing.T) {
		records, err := repo.GetRecordsByUserSince(ctx, 1, base.Add(-2*time.Hour))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("period", func(t *testing.T) {
		records, err := repo.GetRecordsForPeriod(ctx, 1, base.Add(-72*time.Hour), base.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, uint(1), records[0].ID)
	})

	t.Run("latest", func(t *testing.T) {
		latest, err := repo.GetLatestRecord(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(3), latest.ID)

		_, err = repo.GetLatestRecord(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("all users since", func(t *testing.T) {
		records, err := repo.GetRecordsSince(ctx, base.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, uint(3), records[0].ID)
	})

	t.Run("high stress", func(t *testing.T) {
		records, total, err := repo.GetHighStressRecords(ctx, 0, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Equal(t, uint(3), records[0].ID)
		assert.Equal(t, uint(1), records[1].ID)
	})
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &model.User{Name: "Ana", Email: " Ana@Example.com ", PasswordHash: "x", Role: model.RoleUser, Active: true})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotZero(t, user.ID)

	_, err = repo.CreateUser(ctx, &model.User{Name: "Other", Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := repo.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	contact, err := repo.Lookup(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserContact{ID: user.ID, ContactIdentifier: "ana@example.com", DisplayName: "Ana"}, *contact)

	_, err = repo.Lookup(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
