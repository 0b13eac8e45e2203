package utils

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUULDString(t *testing.T) {
	id := GenerateUULDString()
	_, err := ulid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateUULDString())
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2025, time.March, 17, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(in))
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)
	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())
}

func TestHasItemString(t *testing.T) {
	roles := []string{"admin", "faculty"}
	assert.True(t, HasItemString(&roles, "faculty"))
	assert.False(t, HasItemString(&roles, "student"))
	assert.False(t, HasItemString(nil, "admin"))
}
