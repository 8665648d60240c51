package domain

import "fmt"

// Role is a roster member's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member is one roster entry from the team configuration document.
type Member struct {
	GithubID string `json:"githubId"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Color    string `json:"color"`
	Role     Role   `json:"role"`
}

// VacationType is one catalog entry from the team configuration document.
// LabelName is the full tracker label (e.g. "vacation/annual").
type VacationType struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	LabelName string `json:"labelName"`
	Color     string `json:"color"`
}

// TeamConfig is the team-wide configuration document stored in the data
// repository. Read-only from this system's perspective.
type TeamConfig struct {
	Repository struct {
		Owner string `json:"owner"`
		Repo  string `json:"repo"`
	} `json:"repository"`
	Members       []Member       `json:"members"`
	VacationTypes []VacationType `json:"vacationTypes"`
}

// MemberByID returns the roster entry for a github id, if present.
func (c *TeamConfig) MemberByID(githubID string) (*Member, bool) {
	for i := range c.Members {
		if c.Members[i].GithubID == githubID {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// TypeByKey returns the vacation type for a catalog key, if present.
func (c *TeamConfig) TypeByKey(key string) (*VacationType, bool) {
	for i := range c.VacationTypes {
		if c.VacationTypes[i].Key == key {
			return &c.VacationTypes[i], true
		}
	}
	return nil, false
}

// Validate checks the configuration document for the fields this system
// depends on.
func (c *TeamConfig) Validate() error {
	if len(c.VacationTypes) == 0 {
		return fmt.Errorf("team config has no vacation types")
	}
	for _, vt := range c.VacationTypes {
		if vt.Key == "" || vt.Label == "" || vt.LabelName == "" {
			return fmt.Errorf("team config has incomplete vacation type %q", vt.Key)
		}
	}
	for _, m := range c.Members {
		if m.GithubID == "" {
			return fmt.Errorf("team config has a member without githubId")
		}
	}
	return nil
}
