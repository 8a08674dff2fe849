package decorations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veneer-editor/veneer/internal/scm"
)

func twoGroupSnapshot() []scm.ResourceGroup {
	return []scm.ResourceGroup{
		{
			ID:    "index",
			Label: "Staged Changes",
			Resources: []scm.Resource{
				{URI: "file:///w/a.go", Status: scm.StatusAdded},
				{URI: "file:///w/b.go", Status: scm.StatusModified, Tooltip: "Staged Modified"},
			},
		},
		{
			ID:    "workingTree",
			Label: "Changes",
			Resources: []scm.Resource{
				{URI: "file:///w/c.go", Status: scm.StatusUntracked},
			},
		},
	}
}

func TestBridgeRepublishesFlattenedURIList(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	bridge := NewBridge(provider, nil)
	defer bridge.Close()

	var lists [][]string
	dispose := bridge.OnDidChange(func(uris []string) { lists = append(lists, uris) })
	defer dispose()

	provider.SetGroups(twoGroupSnapshot())
	provider.SetGroups(twoGroupSnapshot()[:1])

	require.Len(t, lists, 2)
	assert.Equal(t, []string{"file:///w/a.go", "file:///w/b.go", "file:///w/c.go"}, lists[0])
	assert.Equal(t, []string{"file:///w/a.go", "file:///w/b.go"}, lists[1])
}

func TestBridgeProvideMatchesCurrentSnapshot(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	provider.SetGroups(twoGroupSnapshot())

	bridge := NewBridge(provider, nil)
	defer bridge.Close()

	deco, ok := bridge.Provide("file:///w/b.go")
	require.True(t, ok)
	assert.Contains(t, deco.Tooltip, "Staged Modified")
	assert.Contains(t, deco.Tooltip, "Git")
	assert.Equal(t, "M", deco.Letter)
	assert.Equal(t, "scmDecoration.modifiedForeground", deco.Color)

	_, ok = bridge.Provide("file:///w/missing.go")
	assert.False(t, ok)
}

func TestBridgeTooltipFallsBackToStatusWord(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	provider.SetGroups(twoGroupSnapshot())

	bridge := NewBridge(provider, nil)
	defer bridge.Close()

	deco, ok := bridge.Provide("file:///w/c.go")
	require.True(t, ok)
	assert.Equal(t, "Untracked (Git)", deco.Tooltip)
	assert.Equal(t, SeverityNormal, deco.Severity)
}

func TestBridgeConflictSeverityAndIgnoredFading(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	provider.SetGroups([]scm.ResourceGroup{{
		ID: "merge", Label: "Merge Changes",
		Resources: []scm.Resource{
			{URI: "file:///w/conflict.go", Status: scm.StatusConflict},
			{URI: "file:///w/ignored.go", Status: scm.StatusIgnored},
		},
	}})

	bridge := NewBridge(provider, nil)
	defer bridge.Close()

	conflict, ok := bridge.Provide("file:///w/conflict.go")
	require.True(t, ok)
	assert.Equal(t, SeverityError, conflict.Severity)
	assert.Equal(t, "!", conflict.Letter)

	ignored, ok := bridge.Provide("file:///w/ignored.go")
	require.True(t, ok)
	assert.True(t, ignored.Faded)
}

func TestBridgeIgnorePatternsFilterEventsAndQueries(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	bridge := NewBridge(provider, []string{"*node_modules*", "*.min.js"})
	defer bridge.Close()

	var last []string
	dispose := bridge.OnDidChange(func(uris []string) { last = uris })
	defer dispose()

	provider.SetGroups([]scm.ResourceGroup{{
		ID: "workingTree", Label: "Changes",
		Resources: []scm.Resource{
			{URI: "file:///w/app.js", Status: scm.StatusModified},
			{URI: "file:///w/node_modules/dep/index.js", Status: scm.StatusModified},
			{URI: "file:///w/dist/app.min.js", Status: scm.StatusModified},
		},
	}})

	assert.Equal(t, []string{"file:///w/app.js"}, last)

	_, ok := bridge.Provide("file:///w/node_modules/dep/index.js")
	assert.False(t, ok)
}

func TestBridgeCloseStopsRepublishingAndIsIdempotent(t *testing.T) {
	provider := scm.NewSnapshotProvider("Git", "file:///w")
	bridge := NewBridge(provider, nil)

	notified := 0
	bridge.OnDidChange(func([]string) { notified++ })

	require.NoError(t, bridge.Close())
	require.NoError(t, bridge.Close())

	provider.SetGroups(twoGroupSnapshot())
	assert.Equal(t, 0, notified)
}
