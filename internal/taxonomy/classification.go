package taxonomy

// Classification holds the optional value for every rank of one entity.
// An empty string means the rank is unset for that entity; releases skip
// ranks routinely, so absence carries no meaning beyond "not assigned".
type Classification struct {
	Realm      string `yaml:"realm,omitempty" json:"realm,omitempty"`
	Subrealm   string `yaml:"subrealm,omitempty" json:"subrealm,omitempty"`
	Kingdom    string `yaml:"kingdom,omitempty" json:"kingdom,omitempty"`
	Subkingdom string `yaml:"subkingdom,omitempty" json:"subkingdom,omitempty"`
	Phylum     string `yaml:"phylum,omitempty" json:"phylum,omitempty"`
	Subphylum  string `yaml:"subphylum,omitempty" json:"subphylum,omitempty"`
	Class      string `yaml:"class,omitempty" json:"class,omitempty"`
	Subclass   string `yaml:"subclass,omitempty" json:"subclass,omitempty"`
	Order      string `yaml:"order,omitempty" json:"order,omitempty"`
	Suborder   string `yaml:"suborder,omitempty" json:"suborder,omitempty"`
	Family     string `yaml:"family,omitempty" json:"family,omitempty"`
	Subfamily  string `yaml:"subfamily,omitempty" json:"subfamily,omitempty"`
	Genus      string `yaml:"genus,omitempty" json:"genus,omitempty"`
	Subgenus   string `yaml:"subgenus,omitempty" json:"subgenus,omitempty"`
}

// Get returns the value at a rank, empty string when unset.
func (c *Classification) Get(r Rank) string {
	switch r {
	case Realm:
		return c.Realm
	case Subrealm:
		return c.Subrealm
	case Kingdom:
		return c.Kingdom
	case Subkingdom:
		return c.Subkingdom
	case Phylum:
		return c.Phylum
	case Subphylum:
		return c.Subphylum
	case Class:
		return c.Class
	case Subclass:
		return c.Subclass
	case Order:
		return c.Order
	case Suborder:
		return c.Suborder
	case Family:
		return c.Family
	case Subfamily:
		return c.Subfamily
	case Genus:
		return c.Genus
	case Subgenus:
		return c.Subgenus
	default:
		return ""
	}
}

// Set assigns the value at a rank. Unknown ranks are ignored.
func (c *Classification) Set(r Rank, v string) {
	switch r {
	case Realm:
		c.Realm = v
	case Subrealm:
		c.Subrealm = v
	case Kingdom:
		c.Kingdom = v
	case Subkingdom:
		c.Subkingdom = v
	case Phylum:
		c.Phylum = v
	case Subphylum:
		c.Subphylum = v
	case Class:
		c.Class = v
	case Subclass:
		c.Subclass = v
	case Order:
		c.Order = v
	case Suborder:
		c.Suborder = v
	case Family:
		c.Family = v
	case Subfamily:
		c.Subfamily = v
	case Genus:
		c.Genus = v
	case Subgenus:
		c.Subgenus = v
	}
}

// IsEmpty reports whether no rank has a value.
func (c *Classification) IsEmpty() bool {
	for _, r := range Ranks() {
		if c.Get(r) != "" {
			return false
		}
	}
	return true
}

// Equal reports whether two classifications agree at every rank.
func (c *Classification) Equal(other *Classification) bool {
	if other == nil {
		return c == nil
	}
	return *c == *other
}

// ChangedRanks returns the ranks whose value differs between old and new,
// in hierarchy order. An unset rank counts as a distinct value from any
// set one.
func ChangedRanks(old, updated *Classification) []Rank {
	var changed []Rank
	for _, r := range Ranks() {
		if old.Get(r) != updated.Get(r) {
			changed = append(changed, r)
		}
	}
	return changed
}
