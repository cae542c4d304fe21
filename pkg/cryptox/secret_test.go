package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReference(t *testing.T) {
	a, err := NewReference(ReferenceSize)
	require.NoError(t, err)
	require.Len(t, a, 43)

	b, err := NewReference(ReferenceSize)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = NewReference(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	require.Equal(t, FingerprintToken("refresh-1"), FingerprintToken("refresh-1"))
	require.NotEqual(t, FingerprintToken("refresh-1"), FingerprintToken("refresh-2"))
	require.Len(t, FingerprintToken("refresh-1"), 43)
}

func TestEqualSecret(t *testing.T) {
	require.True(t, EqualSecret("s3cret", "s3cret"))
	require.False(t, EqualSecret("s3cret", "s3cre"))
	require.False(t, EqualSecret("", "s3cret"))
	require.False(t, EqualSecret("", ""))
}
