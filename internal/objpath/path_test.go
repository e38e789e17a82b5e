package objpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		name        string
		path        Path
		expectedStr string
	}{
		{name: "root", path: Root(), expectedStr: ""},
		{name: "simple path", path: Root().Child("a").Child("b"), expectedStr: "a.b"},
		{name: "path with indices", path: Root().Child("project").Element("dependencies", 0).Element("excludes", 15), expectedStr: "project.dependencies[0].excludes[15]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.path.String())
		})
	}
}

func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := Root().Child("a")
	x := base.Child("x")
	y := base.Child("y")

	assert.Equal(t, "a.x", x.String())
	assert.Equal(t, "a.y", y.String())
	assert.Equal(t, "a", base.String())
	assert.True(t, x.Parent().Equal(base))
	assert.True(t, x.HasPrefix(base))
	assert.False(t, base.HasPrefix(x))
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Path
	}{
		{name: "simple path", raw: "a.b.c", expected: New(NewSegment("a"), NewSegment("b"), NewSegment("c"))},
		{name: "with index", raw: "deps[0].excludes[15]", expected: New(NewSegmentWithIndex("deps", 0), NewSegmentWithIndex("excludes", 15))},
		{name: "error - empty segment", raw: "a..b", expectErr: true},
		{name: "error - bad index", raw: "a.b[x]", expectErr: true},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - leading digit", raw: "1a", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(p))
			assert.Equal(t, tc.raw, p.String())
		})
	}
}
