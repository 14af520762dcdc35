package migrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	versions []string
	calls    int
}

func (s *countingSource) List() ([]string, error) {
	s.calls++
	return append([]string(nil), s.versions...), nil
}

func TestCatalogSorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		listing  []string
		expOrder []string
	}{
		{
			name:     "timestamps",
			listing:  []string{"20250103-c", "20250101-a", "20250102-b"},
			expOrder: []string{"20250101-a", "20250102-b", "20250103-c"},
		},
		{
			// Ordering keys compare as plain strings, not numbers; callers
			// must use fixed-width keys for chronological intent.
			name:     "unequal_width_keys",
			listing:  []string{"10-b", "2-a", "0003-c"},
			expOrder: []string{"0003-c", "10-b", "2-a"},
		},
		{
			name:     "equal_keys",
			listing:  []string{"0001-b", "0001-a"},
			expOrder: []string{"0001-a", "0001-b"},
		},
		{
			name:     "no_delimiter",
			listing:  []string{"zzz", "aaa"},
			expOrder: []string{"aaa", "zzz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCatalog(&countingSource{versions: tt.listing})
			versions, err := c.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expOrder, versions)
		})
	}
}

func TestCatalogCaching(t *testing.T) {
	t.Parallel()

	source := &countingSource{versions: []string{"0001-a"}}
	c := NewCatalog(source)

	_, err := c.Load()
	require.NoError(t, err)
	_, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	c.Invalidate()
	_, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
