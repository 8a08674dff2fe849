package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCLIResolvesAliasesToCanonicalFields(t *testing.T) {
	args, err := ParseCLI([]string{"node", "script.js", "--wait", "-n", "file.txt"}, Options{})
	require.NoError(t, err)

	assert.True(t, args.Wait)
	assert.True(t, args.NewWindow)
	assert.Equal(t, []string{"file.txt"}, args.Positionals)
}

func TestParseMainStripsOnlyExecutable(t *testing.T) {
	args, err := ParseMain([]string{"/usr/bin/veneer", "--diff", "a.txt", "b.txt"})
	require.NoError(t, err)

	assert.True(t, args.Diff)
	assert.Equal(t, []string{"a.txt", "b.txt"}, args.Positionals)
}

func TestParseCLIStringFlags(t *testing.T) {
	args, err := ParseCLI([]string{
		"node", "script.js",
		"--locale", "en-US",
		"--user-data-dir=/tmp/data",
		"--install-extension", "vendor.tool",
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "en-US", args.Locale)
	assert.Equal(t, "/tmp/data", args.UserDataDir)
	assert.Equal(t, "vendor.tool", args.InstallExtension)
}

func TestParseCLIDropFirstPositional(t *testing.T) {
	args, err := ParseCLI([]string{"node", "script.js", "workbench.js", "file.txt"},
		Options{DropFirstPositional: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"file.txt"}, args.Positionals)

	// A leading flag is never treated as the droppable positional.
	args, err = ParseCLI([]string{"node", "script.js", "--wait", "file.txt"},
		Options{DropFirstPositional: true})
	require.NoError(t, err)
	assert.True(t, args.Wait)
	assert.Equal(t, []string{"file.txt"}, args.Positionals)
}

func TestParseGotoValidatesPositionals(t *testing.T) {
	args, err := ParseCLI([]string{"node", "script.js", "--goto", "src/file.ts:10:5"}, Options{})
	require.NoError(t, err)
	require.True(t, args.Goto)

	locations := args.Locations()
	require.Len(t, locations, 1)
	assert.Equal(t, Location{Path: "src/file.ts", Line: 10, Column: 5}, locations[0])
}

func TestParseGotoRejectsMalformedPositional(t *testing.T) {
	_, err := ParseCLI([]string{"node", "script.js", "--goto", ":::bad"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE(:LINE(:CHARACTER))")
}

func TestParseGotoUnsetSkipsValidation(t *testing.T) {
	args, err := ParseCLI([]string{"node", "script.js", ":::bad"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{":::bad"}, args.Positionals)
}

func TestParseUnknownFlagsPassThrough(t *testing.T) {
	args, err := ParseCLI([]string{"node", "script.js", "--future-flag", "--wait"}, Options{})
	require.NoError(t, err)
	assert.True(t, args.Wait)
}
