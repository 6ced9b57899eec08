package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTeesToSink(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("production", &buf)
	require.NoError(t, err)

	log.Info("booking approved", BookingFields("b1", "u1", "c1")...)
	_ = log.Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking approved", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "b1", entry["booking_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestBookingFieldsSkipsEmpty(t *testing.T) {
	assert.Len(t, BookingFields("", "u1", ""), 1)
	assert.Empty(t, BookingFields("", "", ""))
}
