package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travels-app/travels/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
}

func TestLocationAvgEmptySubset(t *testing.T) {
	s := store.New()
	seedLocation(t, s, 10)

	avg, ok, err := s.LocationAvgQuery(10, "", fixedNow())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0", avg)
}

func TestLocationAvgNotFound(t *testing.T) {
	s := store.New()
	_, ok, err := s.LocationAvgQuery(999, "", fixedNow())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocationAvgInvalidAgeDate(t *testing.T) {
	s := store.New()
	seedLocation(t, s, 10)

	leapDay := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	_, _, err := s.LocationAvgQuery(10, "fromAge=1", leapDay)
	assert.ErrorIs(t, err, store.ErrBadQuery)
}

func TestLocationAvgNegativeAgeRejected(t *testing.T) {
	s := store.New()
	seedLocation(t, s, 10)

	_, _, err := s.LocationAvgQuery(10, "fromAge=-1", fixedNow())
	assert.ErrorIs(t, err, store.ErrBadQuery)
}

func TestLocationAvgBadGenderLiteral(t *testing.T) {
	s := store.New()
	seedLocation(t, s, 10)

	_, _, err := s.LocationAvgQuery(10, "gender=x", fixedNow())
	assert.ErrorIs(t, err, store.ErrBadQuery)
}

func TestLocationAvgRoundsToFiveDecimals(t *testing.T) {
	s := store.New()
	seedUser(t, s, 1, "m", 0)
	seedUser(t, s, 2, "m", 0)
	seedUser(t, s, 3, "m", 0)
	seedLocation(t, s, 10)
	seedVisit(t, s, 100, 1, 10, 1000, 3)
	seedVisit(t, s, 101, 2, 10, 1001, 3)
	seedVisit(t, s, 102, 3, 10, 1002, 4)

	avg, ok, err := s.LocationAvgQuery(10, "", fixedNow())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3.33333", avg)
}

func TestUserVisitsToDistanceFilter(t *testing.T) {
	s := store.New()
	seedUser(t, s, 1, "m", 0)
	seedLocation(t, s, 10)
	seedVisit(t, s, 100, 1, 10, 1000, 5)

	visits, ok, err := s.UserVisitsQuery(1, "toDistance=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, visits)

	visits, ok, err = s.UserVisitsQuery(1, "toDistance=100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, visits, 1)
}

// An unrecognized key is ignored outright, even when its own value
// carries a %-escape that would fail to decode — only a malformed
// escape on a recognized key's value is a bad request.
func TestUserVisitsUnrecognizedKeyWithBadEscapeIgnored(t *testing.T) {
	s := store.New()
	seedUser(t, s, 1, "m", 0)
	seedLocation(t, s, 10)
	seedVisit(t, s, 100, 1, 10, 1000, 5)

	visits, ok, err := s.UserVisitsQuery(1, "junk=%zz")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, visits, 1)
}

func TestLocationAvgUnrecognizedKeyWithBadEscapeIgnored(t *testing.T) {
	s := store.New()
	seedUser(t, s, 1, "m", 0)
	seedLocation(t, s, 10)
	seedVisit(t, s, 100, 1, 10, 1000, 5)

	avg, ok, err := s.LocationAvgQuery(10, "junk=%zz", fixedNow())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "5.0", avg)
}
