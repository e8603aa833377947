package workorder

// Status values the backend stores in the free-text status field.
const (
	StatusHolding = "HOLDING"
	StatusLocked  = "LOCKED"
	StatusDeleted = "DELETED"
)

// WorkOrder is the server-owned work order record. The backend is the single
// source of truth; the client never mutates a local copy, it re-fetches the
// collection after every save batch.
//
// Date fields are kept as raw strings: the backend emits mixed formats and a
// malformed date must degrade to a display placeholder, never an error.
type WorkOrder struct {
	ID            string `json:"id"`
	WONumber      string `json:"wo_number"`
	Technician    string `json:"technician"`
	FullAddress   string `json:"full_address"`
	ScheduledDate string `json:"scheduled_date"`

	// Report links, read-only on this side.
	LastReportLink     string `json:"last_report_link"`
	UnlockedReportLink string `json:"unlocked_report_link"`

	// Workflow flags.
	TechReportSubmitted bool   `json:"tech_report_submitted"`
	WaitToLock          bool   `json:"wait_to_lock"`
	MovedToHoldingDate  string `json:"moved_to_holding_date"`
	FinalizedBy         string `json:"finalized_by"`
	FinalizedByEmail    string `json:"finalized_by_email"`
	FinalizedDate       string `json:"finalized_date"`
	RMECompleted        bool   `json:"rme_completed"`
	Status              string `json:"status"`
	Reason              string `json:"reason"`
	Notes               string `json:"notes"`

	// Soft-delete bookkeeping.
	IsDeleted      bool   `json:"is_deleted"`
	DeletedBy      string `json:"deleted_by"`
	DeletedByEmail string `json:"deleted_by_email"`
	DeletedDate    string `json:"deleted_date"`

	// Assigned when a report is finalized as locked.
	ReportID string `json:"report_id"`
}
