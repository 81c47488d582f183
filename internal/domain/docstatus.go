package domain

// DocStatus tracks the lifecycle of every document: created as a draft,
// frozen on submit, logically destroyed on cancel. Submitted documents are
// immutable except for status and derived-quantity fields maintained by
// cross-document reconciliation.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

func (d DocStatus) String() string {
	switch d {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}
