// Package scm models source-control providers, their resource groups, and the
// registry of repositories known to the daemon. The daemon never inspects a
// working tree itself; provider state is pushed in by SCM extensions.
package scm

import (
	"fmt"
	"strings"
)

// Status classifies a versioned resource relative to its repository.
type Status int

const (
	StatusUntracked Status = iota
	StatusModified
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusConflict
	StatusIgnored
)

var statusNames = map[Status]string{
	StatusUntracked: "untracked",
	StatusModified:  "modified",
	StatusAdded:     "added",
	StatusDeleted:   "deleted",
	StatusRenamed:   "renamed",
	StatusConflict:  "conflict",
	StatusIgnored:   "ignored",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus converts the wire form of a status back to its enum value.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range statusNames {
		if name == needle {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown resource status %q", s)
}

// Resource is a single versioned file within a resource group.
type Resource struct {
	URI           string `json:"uri"`
	Status        Status `json:"-"`
	Tooltip       string `json:"tooltip,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Faded         bool   `json:"faded,omitempty"`
}

// ResourceGroup is an ordered set of resources sharing a heading in the SCM
// view (e.g. "Staged Changes", "Merge Changes").
type ResourceGroup struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Resources []Resource `json:"resources"`
}
