package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewParses(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.True(t, idx.Valid(id.String()))
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
		require.False(t, idx.Valid(s))
	}
}

func TestSameMillisecondSortsInIssueOrder(t *testing.T) {
	at := time.UnixMilli(1700000000000).UTC()
	a := idx.NewAt(at)
	b := idx.NewAt(at)
	require.Less(t, a.String(), b.String())
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	require.WithinDuration(t, at, idx.NewAt(at).Time(), time.Millisecond)
	require.True(t, idx.ID("bogus").Time().IsZero())
}
