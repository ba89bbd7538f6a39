package reconcile

// Outcome is the classification of a batch by which buckets are non-empty.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeCreateOnly
	OutcomeUpdateOnly
	OutcomeCreateUpdate
	OutcomePartialCreate
	OutcomePartialUpdate
	OutcomePartialAll
	OutcomeTotalFailure
)

var outcomeLabels = map[Outcome]string{
	OutcomeEmpty:         "empty batch",
	OutcomeCreateOnly:    "full success (create only)",
	OutcomeUpdateOnly:    "full success (update only)",
	OutcomeCreateUpdate:  "full success (create+update)",
	OutcomePartialCreate: "partial success (create+fail)",
	OutcomePartialUpdate: "partial success (update+fail)",
	OutcomePartialAll:    "partial success (all three reported)",
	OutcomeTotalFailure:  "total failure",
}

// Classify maps bucket occupancy to an Outcome.
func Classify(created, updated, failed bool) Outcome {
	switch {
	case created && updated && failed:
		return OutcomePartialAll
	case created && updated:
		return OutcomeCreateUpdate
	case created && failed:
		return OutcomePartialCreate
	case updated && failed:
		return OutcomePartialUpdate
	case created:
		return OutcomeCreateOnly
	case updated:
		return OutcomeUpdateOnly
	case failed:
		return OutcomeTotalFailure
	default:
		return OutcomeEmpty
	}
}

// String returns the human-readable outcome label.
func (o Outcome) String() string {
	if label, ok := outcomeLabels[o]; ok {
		return label
	}
	return "unknown"
}

// IsPartial reports whether some records succeeded and some failed.
func (o Outcome) IsPartial() bool {
	return o == OutcomePartialAll || o == OutcomePartialCreate || o == OutcomePartialUpdate
}

// IsSuccess reports whether no record failed. An empty batch counts as success.
func (o Outcome) IsSuccess() bool {
	switch o {
	case OutcomeEmpty, OutcomeCreateOnly, OutcomeUpdateOnly, OutcomeCreateUpdate:
		return true
	default:
		return false
	}
}
