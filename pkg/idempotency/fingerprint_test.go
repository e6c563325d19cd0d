package idempotency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	record := []byte(`{"object_class":"nhsMhs","unique_identifier":"cpa-1"}`)

	fp := Fingerprint(record)
	require.True(t, strings.HasPrefix(fp, FingerprintPrefix+":"))
	require.Len(t, fp, len(FingerprintPrefix)+1+64) // prefix + ":" + sha256 hex

	require.Equal(t, fp, Fingerprint(record))
	require.NotEqual(t, fp, Fingerprint([]byte(`{"object_class":"nhsAs"}`)))
}

func TestTracker(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	first := Fingerprint([]byte("one"))
	second := Fingerprint([]byte("two"))

	require.False(t, tracker.Seen(first))
	require.True(t, tracker.Seen(first))
	require.False(t, tracker.Seen(second))
	require.Equal(t, 2, tracker.Len())
}
