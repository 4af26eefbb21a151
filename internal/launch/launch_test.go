package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

func TestPath(t *testing.T) {
	t.Run("renders the fixed play path shape", func(t *testing.T) {
		assert.Equal(t, "/play/g1/main.html/index-path", Path("g1", "main.html"))
		assert.Equal(t, "/play/g2/i1/index-path", Path("g2", "i1"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, Path("g1", "0"), Path("g1", "0"))
	})

	t.Run("escapes segment separators so distinct pairs stay distinct", func(t *testing.T) {
		assert.NotEqual(t, Path("a/b", "c"), Path("a", "b/c"))
		assert.Equal(t, "/play/a%2Fb/c/index-path", Path("a/b", "c"))
	})

	t.Run("escapes characters unsafe in a path segment", func(t *testing.T) {
		assert.Equal(t, "/play/sp%20ace/100%25/index-path", Path("sp ace", "100%"))
	})
}

func TestSubID(t *testing.T) {
	t.Run("returns the launch token for a Plain entry", func(t *testing.T) {
		entry := catalog.Entry{ID: "g1", Manage: catalog.Plain{LaunchToken: "main.html"}}

		subID, err := SubID(entry, "")

		require.NoError(t, err)
		assert.Equal(t, "main.html", subID)
	})

	t.Run("rejects an instance selection on a Plain entry", func(t *testing.T) {
		entry := catalog.Entry{ID: "g1", Manage: catalog.Plain{LaunchToken: "0"}}

		_, err := SubID(entry, "i1")

		assert.ErrorIs(t, err, ErrUnexpectedInstance)
	})

	t.Run("returns the selected instance id for a SugarCube entry", func(t *testing.T) {
		entry := catalog.Entry{ID: "g2", Manage: catalog.SugarCube{Instances: []catalog.Instance{
			{ID: "i1", Index: "1", Layers: []string{"base"}},
			{ID: "i2", Index: "2"},
		}}}

		subID, err := SubID(entry, "i1")

		require.NoError(t, err)
		assert.Equal(t, "i1", subID)
	})

	t.Run("requires an instance selection on a SugarCube entry", func(t *testing.T) {
		entry := catalog.Entry{ID: "g2", Manage: catalog.SugarCube{Instances: []catalog.Instance{{ID: "i1"}}}}

		_, err := SubID(entry, "")

		assert.ErrorIs(t, err, ErrInstanceRequired)
	})

	t.Run("reports a missing instance", func(t *testing.T) {
		entry := catalog.Entry{ID: "g2", Manage: catalog.SugarCube{Instances: []catalog.Instance{{ID: "i1"}}}}

		_, err := SubID(entry, "i9")

		assert.ErrorIs(t, err, catalog.ErrInstanceNotFound)
	})

	t.Run("panics on an unknown variant", func(t *testing.T) {
		entry := catalog.Entry{ID: "g3"}

		assert.Panics(t, func() { _, _ = SubID(entry, "") })
	})
}
