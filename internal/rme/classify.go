package rme

import (
	"time"

	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

// Row is a work order decorated with the display fields the dashboard tables
// need. Derivation is pure; raw fields are carried through untouched.
type Row struct {
	workorder.WorkOrder

	Stage              workorder.Stage
	FinalizedAsDeleted bool

	ScheduledDisplay string
	Elapsed          string
	ElapsedColor     format.Color
	TechInitial      string
	Street           string
	City             string
	Region           string
}

// Buckets holds the four active-stage lists, each order-preserving relative
// to the input collection.
type Buckets struct {
	ReportNeeded    []Row
	ReportSubmitted []Row
	Holding         []Row
	Finalized       []Row
}

// Classify partitions the full collection into the four active stages.
// Soft-deleted records are excluded here and surface only through History.
// now is injected so urgency buckets are testable.
func Classify(records []workorder.WorkOrder, now time.Time) Buckets {
	var b Buckets

	for _, wo := range records {
		stage := workorder.StageOf(wo)
		if stage == workorder.StageDeleted {
			continue
		}

		row := decorate(wo, stage, now)

		switch stage {
		case workorder.StageReportNeeded:
			b.ReportNeeded = append(b.ReportNeeded, row)
		case workorder.StageReportSubmitted:
			b.ReportSubmitted = append(b.ReportSubmitted, row)
		case workorder.StageHolding:
			b.Holding = append(b.Holding, row)
		case workorder.StageFinalized:
			b.Finalized = append(b.Finalized, row)
		}
	}

	return b
}

// DecorateHistory builds display rows for the soft-deleted subset.
func DecorateHistory(records []workorder.WorkOrder, now time.Time) []Row {
	rows := make([]Row, 0, len(records))

	for _, wo := range records {
		if !wo.IsDeleted {
			continue
		}

		rows = append(rows, decorate(wo, workorder.StageDeleted, now))
	}

	return rows
}

func decorate(wo workorder.WorkOrder, stage workorder.Stage, now time.Time) Row {
	addr := format.SplitAddress(wo.FullAddress)

	return Row{
		WorkOrder:          wo,
		Stage:              stage,
		FinalizedAsDeleted: workorder.FinalizedAsDeleted(wo),
		ScheduledDisplay:   format.FormatDateTime(wo.ScheduledDate),
		Elapsed:            format.Elapsed(wo.ScheduledDate, now),
		ElapsedColor:       format.ElapsedColor(wo.ScheduledDate, now),
		TechInitial:        format.TechInitial(wo.Technician),
		Street:             addr.Street,
		City:               addr.City,
		Region:             addr.Region,
	}
}
