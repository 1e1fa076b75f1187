package recyclerview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeRegistry tests id assignment and lookup.
func TestTypeRegistry(t *testing.T) {
	t.Parallel()

	t.Run("assigns dense ids from zero", func(t *testing.T) {
		t.Parallel()
		reg := NewTypeRegistry()

		header := reg.Register("header")
		row := reg.Register("row")
		footer := reg.Register("footer")

		assert.Equal(t, RecordType(0), header)
		assert.Equal(t, RecordType(1), row)
		assert.Equal(t, RecordType(2), footer)
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("registering the same name twice returns the same id", func(t *testing.T) {
		t.Parallel()
		reg := NewTypeRegistry()

		first := reg.Register("row")
		second := reg.Register("row")

		assert.Equal(t, first, second)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("lookup and name round-trip", func(t *testing.T) {
		t.Parallel()
		reg := NewTypeRegistry()
		row := reg.Register("row")

		got, ok := reg.Lookup("row")
		require.True(t, ok)
		assert.Equal(t, row, got)
		assert.Equal(t, "row", reg.Name(row))
	})

	t.Run("unknown names and ids", func(t *testing.T) {
		t.Parallel()
		reg := NewTypeRegistry()

		_, ok := reg.Lookup("missing")
		assert.False(t, ok)
		assert.Equal(t, "", reg.Name(RecordType(7)))
		assert.Equal(t, "", reg.Name(RecordType(-1)))
	})
}

// TestValidateGroups tests stable-key collision detection.
func TestValidateGroups(t *testing.T) {
	t.Parallel()

	t.Run("accepts unique keys", func(t *testing.T) {
		t.Parallel()
		groups := []Group{
			{Key: "alpha", Records: []Record{{}, {}}},
			{Key: "beta"},
			{Key: "gamma", Records: []Record{{Key: "custom-1"}, {}}},
		}

		assert.NoError(t, ValidateGroups(groups))
	})

	t.Run("rejects duplicate group keys", func(t *testing.T) {
		t.Parallel()
		groups := []Group{
			{Key: "alpha"},
			{Key: "alpha"},
		}

		err := ValidateGroups(groups)
		require.ErrorIs(t, err, ErrDuplicateKey)
		assert.Contains(t, err.Error(), "groups[0].header")
		assert.Contains(t, err.Error(), "groups[1].header")
	})

	t.Run("rejects duplicate explicit record keys", func(t *testing.T) {
		t.Parallel()
		groups := []Group{
			{Key: "alpha", Records: []Record{{Key: "dup"}}},
			{Key: "beta", Records: []Record{{}, {Key: "dup"}}},
		}

		err := ValidateGroups(groups)
		require.ErrorIs(t, err, ErrDuplicateKey)
		assert.Contains(t, err.Error(), `"dup"`)
		assert.Contains(t, err.Error(), "groups[0].records[0]")
		assert.Contains(t, err.Error(), "groups[1].records[1]")
	})

	t.Run("rejects explicit key colliding with a derived key", func(t *testing.T) {
		t.Parallel()
		// "alpha/0" is also what the first record of group "alpha" derives.
		groups := []Group{
			{Key: "alpha", Records: []Record{{}}},
			{Key: "beta", Records: []Record{{Key: "alpha/0"}}},
		}

		err := ValidateGroups(groups)
		require.ErrorIs(t, err, ErrDuplicateKey)
		assert.Contains(t, err.Error(), "groups[0].records[0]")
		assert.Contains(t, err.Error(), "groups[1].records[0]")
	})

	t.Run("accepts empty input", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateGroups(nil))
	})
}
