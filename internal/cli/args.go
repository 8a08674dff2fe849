// Package cli implements the editor's command-line surface: the declarative
// flag schema, argument validation, and help-text formatting. Flag parsing
// itself is delegated to pflag.
package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// Kind classifies a flag's value.
type Kind int

const (
	KindBool Kind = iota
	KindString
)

// Flag declares one recognized option: canonical name, value kind, optional
// single-letter shorthand, and help text.
type Flag struct {
	Name        string
	Shorthand   string
	Kind        Kind
	Placeholder string // shown in help for string flags
	Description string
}

// Schema is the full recognized option surface, in help-text order.
var Schema = []Flag{
	{Name: "diff", Shorthand: "d", Kind: KindBool, Description: "Open a diff editor. Requires two file paths as arguments."},
	{Name: "goto", Shorthand: "g", Kind: KindBool, Description: "Open the file at the path on the specified line and character position."},
	{Name: "locale", Kind: KindString, Placeholder: "locale", Description: "The locale to use (e.g. en-US or zh-TW)."},
	{Name: "new-window", Shorthand: "n", Kind: KindBool, Description: "Force a new instance of the editor."},
	{Name: "reuse-window", Shorthand: "r", Kind: KindBool, Description: "Force opening a file or folder in the last active window."},
	{Name: "user-data-dir", Kind: KindString, Placeholder: "dir", Description: "Specifies the directory that user data is kept in, useful when running as root."},
	{Name: "extensions-dir", Kind: KindString, Placeholder: "dir", Description: "Set the root path for extensions."},
	{Name: "install-extension", Kind: KindString, Placeholder: "ext-id", Description: "Installs an extension."},
	{Name: "uninstall-extension", Kind: KindString, Placeholder: "ext-id", Description: "Uninstalls an extension."},
	{Name: "enable-proposed-api", Kind: KindString, Placeholder: "ext-id", Description: "Enables proposed api features for an extension."},
	{Name: "wait", Shorthand: "w", Kind: KindBool, Description: "Wait for the files to be closed before returning."},
	{Name: "version", Shorthand: "v", Kind: KindBool, Description: "Print version."},
	{Name: "help", Shorthand: "h", Kind: KindBool, Description: "Print usage."},
}

// Args is the parsed argument set. Aliases resolve to their canonical field;
// the set is immutable once returned.
type Args struct {
	Diff        bool
	Goto        bool
	NewWindow   bool
	ReuseWindow bool
	Wait        bool
	Version     bool
	Help        bool

	Locale             string
	UserDataDir        string
	ExtensionsDir      string
	InstallExtension   string
	UninstallExtension string
	EnableProposedAPI  string

	Positionals []string
}

// Options adjusts how the raw argument vector is pre-processed.
type Options struct {
	// DropFirstPositional strips one leading non-flag token before parsing,
	// for launchers that pass a workspace script ahead of the real arguments.
	DropFirstPositional bool
}

// ParseMain parses the main-process argument vector. The leading executable
// token is discarded.
func ParseMain(argv []string) (*Args, error) {
	if len(argv) > 0 {
		argv = argv[1:]
	}
	return parse(argv)
}

// ParseCLI parses the CLI wrapper's argument vector. The leading executable
// and script tokens are discarded, plus one more leading non-flag token when
// opts.DropFirstPositional is set.
func ParseCLI(argv []string, opts Options) (*Args, error) {
	if len(argv) > 0 {
		argv = argv[1:]
	}
	if len(argv) > 0 {
		argv = argv[1:]
	}
	if opts.DropFirstPositional && len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		argv = argv[1:]
	}
	return parse(argv)
}

func parse(argv []string) (*Args, error) {
	fs := pflag.NewFlagSet("veneer", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(nopWriter{})

	bools := make(map[string]*bool)
	strs := make(map[string]*string)
	for _, flag := range Schema {
		switch flag.Kind {
		case KindBool:
			bools[flag.Name] = fs.BoolP(flag.Name, flag.Shorthand, false, flag.Description)
		case KindString:
			strs[flag.Name] = fs.StringP(flag.Name, flag.Shorthand, "", flag.Description)
		}
	}

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	args := &Args{
		Diff:        *bools["diff"],
		Goto:        *bools["goto"],
		NewWindow:   *bools["new-window"],
		ReuseWindow: *bools["reuse-window"],
		Wait:        *bools["wait"],
		Version:     *bools["version"],
		Help:        *bools["help"],

		Locale:             *strs["locale"],
		UserDataDir:        *strs["user-data-dir"],
		ExtensionsDir:      *strs["extensions-dir"],
		InstallExtension:   *strs["install-extension"],
		UninstallExtension: *strs["uninstall-extension"],
		EnableProposedAPI:  *strs["enable-proposed-api"],

		Positionals: fs.Args(),
	}

	if args.Goto {
		for _, positional := range args.Positionals {
			if _, err := ParseLocation(positional); err != nil {
				return nil, err
			}
		}
	}
	return args, nil
}

// Locations parses every positional as a goto location. Call only after a
// successful parse with Goto set; the positionals are already validated then.
func (a *Args) Locations() []Location {
	locations := make([]Location, 0, len(a.Positionals))
	for _, positional := range a.Positionals {
		loc, err := ParseLocation(positional)
		if err != nil {
			continue
		}
		locations = append(locations, loc)
	}
	return locations
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
