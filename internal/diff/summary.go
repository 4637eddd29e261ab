package diff

import "sort"

// Summary accumulates classifier outputs across many changes into
// corpus-level statistics.
type Summary struct {
	total          int
	changeTypes    map[ChangeType]int
	changeSubtypes map[ChangeSubtype]int
	severities     map[Severity]int
	statuses       map[ValidationStatus]int
	issues         map[ValidationStatus]map[string]struct{}
}

// NewSummary returns an empty aggregator.
func NewSummary() *Summary {
	return &Summary{
		changeTypes:    make(map[ChangeType]int),
		changeSubtypes: make(map[ChangeSubtype]int),
		severities:     make(map[Severity]int),
		statuses:       make(map[ValidationStatus]int),
		issues:         make(map[ValidationStatus]map[string]struct{}),
	}
}

// Add records one classified change.
func (s *Summary) Add(changeType ChangeType, subtype ChangeSubtype, severity Severity, status ValidationStatus, notes []string) {
	s.total++
	s.changeTypes[changeType]++
	s.changeSubtypes[subtype]++
	s.severities[severity]++
	s.statuses[status]++

	if len(notes) > 0 {
		set, ok := s.issues[status]
		if !ok {
			set = make(map[string]struct{})
			s.issues[status] = set
		}
		for _, note := range notes {
			set[note] = struct{}{}
		}
	}
}

// AddChange records one differ-produced change.
func (s *Summary) AddChange(c *Change) {
	s.Add(c.Type, c.Subtype, c.Severity, c.Status, c.Notes)
}

// Report is the corpus-level statistics snapshot of a Summary.
type Report struct {
	TotalChanges     int            `json:"total_changes"`
	ChangeTypes      map[string]int `json:"change_types"`
	ChangeSubtypes   map[string]int `json:"change_subtypes"`
	SeverityLevels   map[string]int `json:"severity_levels"`
	ValidationStatus map[string]int `json:"validation_status"`
	// CommonIssues lists the deduplicated notes per validation status.
	CommonIssues map[string][]string `json:"common_issues"`
}

// Report returns the accumulated statistics.
func (s *Summary) Report() Report {
	report := Report{
		TotalChanges:     s.total,
		ChangeTypes:      make(map[string]int, len(s.changeTypes)),
		ChangeSubtypes:   make(map[string]int, len(s.changeSubtypes)),
		SeverityLevels:   make(map[string]int, len(s.severities)),
		ValidationStatus: make(map[string]int, len(s.statuses)),
		CommonIssues:     make(map[string][]string, len(s.issues)),
	}
	for k, v := range s.changeTypes {
		report.ChangeTypes[string(k)] = v
	}
	for k, v := range s.changeSubtypes {
		report.ChangeSubtypes[string(k)] = v
	}
	for k, v := range s.severities {
		report.SeverityLevels[string(k)] = v
	}
	for k, v := range s.statuses {
		report.ValidationStatus[string(k)] = v
	}
	for status, set := range s.issues {
		notes := make([]string, 0, len(set))
		for note := range set {
			notes = append(notes, note)
		}
		sort.Strings(notes)
		report.CommonIssues[string(status)] = notes
	}
	return report
}

// QualityScore condenses the accumulated validation statuses into a value
// in [0, 1]: valid counts fully, warnings half, errors not at all. An
// empty aggregator scores 1.0.
func (s *Summary) QualityScore() float64 {
	if s.total == 0 {
		return 1.0
	}
	valid := float64(s.statuses[StatusValid])
	warning := float64(s.statuses[StatusWarning])
	return (valid + 0.5*warning) / float64(s.total)
}
