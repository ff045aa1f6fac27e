// Package labeling classifies activity names into coarse usage labels.
// The same classifier runs in the agent and in backend normalization so
// buffered and server-ingested records carry comparable semantics.
package labeling

import "strings"

const (
	LabelSocial = "social"
	LabelOther  = "other"
	LabelStudy  = "study"

	// UnknownName is substituted for blank or unparseable activity names.
	UnknownName = "unknown"
)

// Labeler assigns labels by substring membership in a configured
// high-distraction list.
type Labeler struct {
	socialSites []string
}

// New builds a Labeler over the given high-distraction substrings.
func New(socialSites []string) *Labeler {
	sites := make([]string, 0, len(socialSites))
	for _, s := range socialSites {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		sites = append(sites, s)
	}
	return &Labeler{socialSites: sites}
}

// Label normalizes name and classifies it. Blank names come back as
// UnknownName with the fallback label.
func (l *Labeler) Label(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownName, LabelOther
	}

	lowered := strings.ToLower(name)
	for _, site := range l.socialSites {
		if strings.Contains(lowered, site) {
			return name, LabelSocial
		}
	}
	return name, LabelOther
}
