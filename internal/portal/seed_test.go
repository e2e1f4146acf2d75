package portal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-portal/internal/content"
)

const bundleYAML = `
content:
  - title: Capitals
    type: assignment
    text: |
      Q1: Capital of France?
      A1: Paris
  - title: Planets
    type: quiz
    semester: sem-2
    text: |
      Q1: Largest planet?
      A) Mars
      B) Jupiter
      C) Venus
      D) Earth
      Correct: B
  - title: Broken
    type: quiz
    text: nothing here
`

func TestSeed(t *testing.T) {
	b, err := LoadBundle(strings.NewReader(bundleYAML))
	require.NoError(t, err)
	require.Len(t, b.Content, 3)

	f := newFixture(t)
	sets, err := f.svc.Seed(context.Background(), "seed", b)
	require.ErrorIs(t, err, content.ErrParseEmpty)
	assert.Contains(t, err.Error(), "Broken")
	require.Len(t, sets, 2)
	assert.Equal(t, content.KindMultipleChoice, sets[1].Kind)
	assert.Equal(t, "sem-2", sets[1].Semester)

	all, err := f.svc.ListContent(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLoadBundleUnknownField(t *testing.T) {
	_, err := LoadBundle(strings.NewReader("content:\n  - title: x\n    kind: quiz\n"))
	require.Error(t, err)
}
