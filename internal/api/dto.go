package api

import (
	"fmt"

	"github.com/veneer-editor/veneer/internal/scm"
)

// Wire forms for provider state pushes. Status travels as its string name.

type resourceDTO struct {
	URI           string `json:"uri"`
	Status        string `json:"status"`
	Tooltip       string `json:"tooltip,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Faded         bool   `json:"faded,omitempty"`
}

type groupDTO struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	Resources []resourceDTO `json:"resources"`
}

func toResourceGroups(dtos []groupDTO) ([]scm.ResourceGroup, error) {
	groups := make([]scm.ResourceGroup, 0, len(dtos))
	for _, g := range dtos {
		group := scm.ResourceGroup{
			ID:        g.ID,
			Label:     g.Label,
			Resources: make([]scm.Resource, 0, len(g.Resources)),
		}
		for _, res := range g.Resources {
			if res.URI == "" {
				return nil, fmt.Errorf("group %q: resource with empty uri", g.ID)
			}
			status, err := scm.ParseStatus(res.Status)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.ID, err)
			}
			group.Resources = append(group.Resources, scm.Resource{
				URI:           res.URI,
				Status:        status,
				Tooltip:       res.Tooltip,
				Strikethrough: res.Strikethrough,
				Faded:         res.Faded,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}
