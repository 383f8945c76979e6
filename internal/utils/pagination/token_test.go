package pagination_test

import (
	"testing"
	"time"

	"github.com/jsmitterc/remesafe/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	entryDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	accountingDate := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)

	token := pagination.EncodeToken(entryDate, accountingDate)
	gotEntry, gotAccounting, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(gotEntry))
	assert.True(t, accountingDate.Equal(gotAccounting))
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	// Valid base64 but not a cursor.
	_, _, err = pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
