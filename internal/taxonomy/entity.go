package taxonomy

import (
	"path"
	"regexp"
	"strings"
)

// Meta carries release provenance for one entity record.
type Meta struct {
	SourceVersion string            `yaml:"source_version,omitempty" json:"source_version,omitempty"`
	LastChange    string            `yaml:"last_change,omitempty" json:"last_change,omitempty"`
	ProvenanceURL string            `yaml:"provenance_url,omitempty" json:"provenance_url,omitempty"`
	Extra         map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Entity is one named taxon. Identity is the name string; a name reused
// after removal is a coincidence, not continuity, unless the differ infers
// a rename.
type Entity struct {
	Name           string         `yaml:"name" json:"name"`
	Classification Classification `yaml:"classification" json:"classification"`
	Meta           Meta           `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// Snapshot is the complete entity set of one release. Snapshots are
// materialized once by the store and treated as read-only by callers.
type Snapshot struct {
	Version  string
	Entities map[string]*Entity
}

// NewSnapshot returns an empty snapshot for a version label.
func NewSnapshot(version string) *Snapshot {
	return &Snapshot{Version: version, Entities: make(map[string]*Entity)}
}

// Add inserts an entity, replacing any previous record with the same name.
func (s *Snapshot) Add(e *Entity) {
	s.Entities[e.Name] = e
}

// Get looks an entity up by name.
func (s *Snapshot) Get(name string) (*Entity, bool) {
	e, ok := s.Entities[name]
	return e, ok
}

// Len returns the entity count.
func (s *Snapshot) Len() int {
	return len(s.Entities)
}

// Names returns all entity names in unspecified order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Entities))
	for name := range s.Entities {
		names = append(names, name)
	}
	return names
}

var (
	segmentUnsafe      = regexp.MustCompile(`[^a-z0-9]+`)
	segmentUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeSegment converts a taxon name into a filesystem-safe path
// segment: lowercased, punctuation and whitespace folded to single
// underscores, leading/trailing underscores trimmed.
func SanitizeSegment(name string) string {
	s := strings.ToLower(name)
	s = segmentUnsafe.ReplaceAllString(s, "_")
	s = segmentUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ArtifactPath returns the store-relative path of an entity artifact. Each
// set rank contributes one directory segment in hierarchy order and the
// file is named after the entity itself.
func (e *Entity) ArtifactPath() string {
	segments := make([]string, 0, int(rankCount)+1)
	for _, r := range Ranks() {
		if v := e.Classification.Get(r); v != "" {
			segments = append(segments, SanitizeSegment(v))
		}
	}
	segments = append(segments, SanitizeSegment(e.Name)+".yaml")
	return path.Join(segments...)
}
