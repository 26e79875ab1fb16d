package domain

// Severity indicates how serious a finding is.
type Severity string

const (
	// SeverityError marks violations that must be resolved.
	SeverityError Severity = "error"
	// SeverityWarning marks conditions that are legal but suspect.
	SeverityWarning Severity = "warning"
)

// Finding classes, in the order the validator checks them.
const (
	FindingUnparseableFilename = "unparseable_filename"
	FindingDuplicateID         = "duplicate_id"
	FindingDuplicatePath       = "duplicate_path"
	FindingMissingDoctype      = "missing_doctype"
	FindingTitleMismatch       = "title_mismatch"
	FindingOrphan              = "orphan"
)

// Finding is one integrity violation discovered by the validator.
// Findings are accumulated and returned, never raised mid-mutation.
type Finding struct {
	Class    string   `json:"class" yaml:"class"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
}
