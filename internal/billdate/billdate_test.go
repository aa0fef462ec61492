package billdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromISOStripsLeadingZeros(t *testing.T) {
	cases := map[string]string{
		"2024-06-05": "5/6/2024",
		"2024-12-20": "20/12/2024",
		"2025-01-01": "1/1/2025",
		"2025-10-31": "31/10/2025",
	}
	for iso, want := range cases {
		got, err := FromISO(iso)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFromISORejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "5/6/2024", "2024-6-5", "2024-13-01", "20240605", "yesterday"} {
		_, err := FromISO(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatMatchesStoredForm(t *testing.T) {
	ts := time.Date(2024, time.June, 5, 14, 30, 9, 0, time.UTC)
	assert.Equal(t, "5/6/2024", Format(ts))
	assert.Equal(t, "2:30:09 PM", Clock(ts))
}

func TestFromISORoundTripsWithFormat(t *testing.T) {
	ts := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	converted, err := FromISO(ts.Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, Format(ts), converted)
}

func TestTodayUsesStoredForm(t *testing.T) {
	assert.Equal(t, Format(time.Now()), Today())
}
