package lifecycle

// Status represents a document version's lifecycle status.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusDraftForReview   Status = "DRAFT_FOR_REVIEW"
	StatusDraftForApproval Status = "DRAFT_FOR_APPROVAL"
	StatusReleased         Status = "RELEASED"
	StatusRejected         Status = "REJECTED"
	StatusExpired          Status = "EXPIRED"
	StatusInRevision       Status = "IN_REVISION"
	StatusObsolete         Status = "OBSOLETE"
)

// Integer codes as stored in the database. The values follow the historic
// numbering and must not be changed.
const (
	CodeDraftForReview   = 0
	CodeDraftForApproval = 1
	CodeReleased         = 2
	CodeInRevision       = 3
	CodeDraft            = 4
	CodeRejected         = -1
	CodeObsolete         = -2
	CodeExpired          = -3
)

var statusCodes = map[Status]int{
	StatusDraft:            CodeDraft,
	StatusDraftForReview:   CodeDraftForReview,
	StatusDraftForApproval: CodeDraftForApproval,
	StatusReleased:         CodeReleased,
	StatusRejected:         CodeRejected,
	StatusExpired:          CodeExpired,
	StatusInRevision:       CodeInRevision,
	StatusObsolete:         CodeObsolete,
}

var codeStatuses = func() map[int]Status {
	m := make(map[int]Status, len(statusCodes))
	for s, c := range statusCodes {
		m[c] = s
	}
	return m
}()

var terminalStatuses = map[Status]bool{
	StatusRejected: true,
	StatusObsolete: true,
}

// IsValid returns true if the status is one of the defined lifecycle statuses.
func (s Status) IsValid() bool {
	_, ok := statusCodes[s]
	return ok
}

// IsTerminal returns true if no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// Code returns the database code of the status.
func (s Status) Code() int {
	return statusCodes[s]
}

func (s Status) String() string {
	return string(s)
}

// FromCode maps a database code back to a Status. The second return value is
// false for unknown codes.
func FromCode(code int) (Status, bool) {
	s, ok := codeStatuses[code]
	return s, ok
}
