package check

// Report statuses.
const (
	StatusOK       = "ok"
	StatusWarnings = "warnings"
	StatusErrors   = "errors"
)

// Report combines all checkers for one manuscript directory.
type Report struct {
	Status     string            `json:"status"`
	Manuscript *ManuscriptReport `json:"manuscript"`
	Citations  *CitationReport   `json:"citations"`
}

// Run executes the manuscript and citation checkers and aggregates their
// status. Citation checks still run when the structure has errors; a missing
// bibliography degrades them to format-only checks rather than skipping them.
func Run(dir string) (*Report, error) {
	manuscript, err := CheckManuscript(dir)
	if err != nil {
		return nil, err
	}
	citations, err := CheckCitations(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Status:     StatusOK,
		Manuscript: manuscript,
		Citations:  citations,
	}
	for _, f := range append(append([]Finding{}, manuscript.Findings...), citations.Findings...) {
		switch f.Level {
		case LevelError:
			report.Status = StatusErrors
		case LevelWarning:
			if report.Status == StatusOK {
				report.Status = StatusWarnings
			}
		}
		if report.Status == StatusErrors {
			break
		}
	}
	return report, nil
}
