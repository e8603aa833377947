package workorder

// Stage is the single workflow bucket a work order occupies. Every non
// soft-deleted record lands in exactly one of the four active stages;
// soft-deleted records are StageDeleted and appear only in History.
type Stage int

const (
	StageReportNeeded Stage = iota
	StageReportSubmitted
	StageHolding
	StageFinalized
	StageDeleted
)

func (s Stage) String() string {
	switch s {
	case StageReportNeeded:
		return "report_needed"
	case StageReportSubmitted:
		return "report_submitted"
	case StageHolding:
		return "holding"
	case StageFinalized:
		return "finalized"
	case StageDeleted:
		return "deleted"
	}

	return "unknown"
}

// StageOf derives the stage from the workflow flags. The branch order below
// IS the stage precedence; do not reorder without reading the partition rules:
//
//  1. is_deleted                              -> Deleted (History only)
//  2. status=DELETED and rme_completed        -> Finalized (as deleted)
//  3. status=LOCKED and rme_completed,
//     or finalized_by set and rme_completed   -> Finalized (as locked; the
//     finalized_by variant covers records written before status was stamped)
//  4. wait_to_lock or moved_to_holding_date   -> Holding
//  5. tech_report_submitted                   -> ReportSubmitted
//  6. otherwise                               -> ReportNeeded
func StageOf(wo WorkOrder) Stage {
	switch {
	case wo.IsDeleted:
		return StageDeleted
	case wo.Status == StatusDeleted && wo.RMECompleted:
		return StageFinalized
	case wo.Status == StatusLocked && wo.RMECompleted:
		return StageFinalized
	case wo.FinalizedBy != "" && wo.RMECompleted:
		return StageFinalized
	case wo.WaitToLock || wo.MovedToHoldingDate != "":
		return StageHolding
	case wo.TechReportSubmitted:
		return StageReportSubmitted
	default:
		return StageReportNeeded
	}
}

// FinalizedAsDeleted reports whether a finalized record was finalized through
// the delete action rather than a lock.
func FinalizedAsDeleted(wo WorkOrder) bool {
	return StageOf(wo) == StageFinalized && wo.Status == StatusDeleted
}
