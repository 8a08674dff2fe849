// Package decorations implements the decoration model, the rendering service
// editor frontends query, and the bridge adapting SCM providers to it.
package decorations

import (
	"fmt"

	"github.com/veneer-editor/veneer/internal/scm"
)

// Severity orders decorations when several apply to the same entry.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityError
)

// IconSet references the themed icons for a decoration.
type IconSet struct {
	Light string `json:"light,omitempty"`
	Dark  string `json:"dark,omitempty"`
}

// Decoration is the display metadata attached to a single file entry.
type Decoration struct {
	Severity      Severity `json:"severity"`
	Color         string   `json:"color,omitempty"`
	Letter        string   `json:"letter,omitempty"`
	Tooltip       string   `json:"tooltip,omitempty"`
	Icons         IconSet  `json:"icons,omitzero"`
	Strikethrough bool     `json:"strikethrough,omitempty"`
	Faded         bool     `json:"faded,omitempty"`
}

type statusStyle struct {
	severity Severity
	color    string
	letter   string
	word     string
}

var statusStyles = map[scm.Status]statusStyle{
	scm.StatusUntracked: {SeverityNormal, "scmDecoration.untrackedForeground", "U", "Untracked"},
	scm.StatusModified:  {SeverityNormal, "scmDecoration.modifiedForeground", "M", "Modified"},
	scm.StatusAdded:     {SeverityNormal, "scmDecoration.addedForeground", "A", "Added"},
	scm.StatusDeleted:   {SeverityWarning, "scmDecoration.deletedForeground", "D", "Deleted"},
	scm.StatusRenamed:   {SeverityNormal, "scmDecoration.renamedForeground", "R", "Renamed"},
	scm.StatusConflict:  {SeverityError, "scmDecoration.conflictForeground", "!", "Conflict"},
	scm.StatusIgnored:   {SeverityNormal, "scmDecoration.ignoredForeground", "", "Ignored"},
}

// ForResource composes the decoration for a resource belonging to the given
// provider. The tooltip always names both the resource state and the provider.
func ForResource(res scm.Resource, providerLabel string) Decoration {
	style := statusStyles[res.Status]

	tooltip := res.Tooltip
	if tooltip == "" {
		tooltip = style.word
	}

	return Decoration{
		Severity:      style.severity,
		Color:         style.color,
		Letter:        style.letter,
		Tooltip:       fmt.Sprintf("%s (%s)", tooltip, providerLabel),
		Icons:         statusIcons(res.Status),
		Strikethrough: res.Strikethrough,
		Faded:         res.Faded || res.Status == scm.StatusIgnored,
	}
}

func statusIcons(status scm.Status) IconSet {
	name := status.String()
	return IconSet{
		Light: fmt.Sprintf("icons/light/status-%s.svg", name),
		Dark:  fmt.Sprintf("icons/dark/status-%s.svg", name),
	}
}
