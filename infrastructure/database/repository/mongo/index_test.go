package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rollcall.io/entities"
)

func TestWithoutDeletedScopesFilter(t *testing.T) {
	filter := map[string]any{"personID": "p1"}
	scoped := withoutDeleted(filter)
	assert.Equal(t, map[string]any{"personID": "p1", "deletedAt": nil}, scoped)
	assert.NotContains(t, filter, "deletedAt")
}

func TestToDocumentUsesBsonTags(t *testing.T) {
	month := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	document, err := toDocument(&entities.MonthlyReport{ID: "r1", PersonID: "p1", Month: month, AttendedSessions: 3})
	require.NoError(t, err)
	assert.Equal(t, "r1", document["_id"])
	assert.Equal(t, "p1", document["personID"])
	assert.EqualValues(t, 3, document["attendedSessions"])
}
