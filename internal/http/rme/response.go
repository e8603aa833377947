package rme

import (
	"time"

	"github.com/rooterworks/rmetrack/internal/audit"
	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/rme"
)

type rowResponse struct {
	ID                 string       `json:"id"`
	WONumber           string       `json:"wo_number"`
	Technician         string       `json:"technician"`
	TechInitial        string       `json:"tech_initial"`
	Street             string       `json:"street"`
	City               string       `json:"city"`
	Region             string       `json:"region"`
	ScheduledDisplay   string       `json:"scheduled_display"`
	Elapsed            string       `json:"elapsed"`
	ElapsedColor       format.Color `json:"elapsed_color"`
	TechReportSub      bool         `json:"tech_report_submitted"`
	WaitToLock         bool         `json:"wait_to_lock"`
	Reason             string       `json:"reason,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	Status             string       `json:"status,omitempty"`
	FinalizedBy        string       `json:"finalized_by,omitempty"`
	FinalizedDate      string       `json:"finalized_date,omitempty"`
	FinalizedAsDeleted bool         `json:"finalized_as_deleted,omitempty"`
	ReportID           string       `json:"report_id,omitempty"`
	LastReportLink     string       `json:"last_report_link,omitempty"`
	UnlockedReportLink string       `json:"unlocked_report_link,omitempty"`
}

type stagesResponse struct {
	ReportNeeded    []rowResponse `json:"report_needed"`
	ReportSubmitted []rowResponse `json:"report_submitted"`
	Holding         []rowResponse `json:"holding"`
	Finalized       []rowResponse `json:"finalized"`
}

func toRowResponse(row rme.Row) rowResponse {
	return rowResponse{
		ID:                 row.ID,
		WONumber:           row.WONumber,
		Technician:         row.Technician,
		TechInitial:        row.TechInitial,
		Street:             row.Street,
		City:               row.City,
		Region:             row.Region,
		ScheduledDisplay:   row.ScheduledDisplay,
		Elapsed:            row.Elapsed,
		ElapsedColor:       row.ElapsedColor,
		TechReportSub:      row.TechReportSubmitted,
		WaitToLock:         row.WaitToLock,
		Reason:             row.Reason,
		Notes:              row.Notes,
		Status:             row.Status,
		FinalizedBy:        row.FinalizedBy,
		FinalizedDate:      row.FinalizedDate,
		FinalizedAsDeleted: row.FinalizedAsDeleted,
		ReportID:           row.ReportID,
		LastReportLink:     row.LastReportLink,
		UnlockedReportLink: row.UnlockedReportLink,
	}
}

func toRowResponseList(rows []rme.Row) []rowResponse {
	out := make([]rowResponse, len(rows))
	for i, row := range rows {
		out[i] = toRowResponse(row)
	}

	return out
}

func toStagesResponse(b rme.Buckets) stagesResponse {
	return stagesResponse{
		ReportNeeded:    toRowResponseList(b.ReportNeeded),
		ReportSubmitted: toRowResponseList(b.ReportSubmitted),
		Holding:         toRowResponseList(b.Holding),
		Finalized:       toRowResponseList(b.Finalized),
	}
}

type resultResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

type invalidResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

type saveResponse struct {
	Summary     string            `json:"summary"`
	TechReports []resultResponse  `json:"tech_reports,omitempty"`
	Locked      []resultResponse  `json:"locked,omitempty"`
	WaitToLock  []resultResponse  `json:"wait_to_lock,omitempty"`
	Deleted     []resultResponse  `json:"deleted,omitempty"`
	Invalid     []invalidResponse `json:"invalid,omitempty"`
}

func toResultResponses(results []rme.Result) []resultResponse {
	if len(results) == 0 {
		return nil
	}

	out := make([]resultResponse, len(results))

	for i, res := range results {
		out[i] = resultResponse{ID: res.ID, Address: res.Address}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}

	return out
}

func toSaveResponse(report *rme.SaveReport) saveResponse {
	resp := saveResponse{
		Summary:     report.Summary(),
		TechReports: toResultResponses(report.TechReports),
		Locked:      toResultResponses(report.Locked),
		WaitToLock:  toResultResponses(report.WaitToLock),
		Deleted:     toResultResponses(report.Deleted),
	}

	for _, inv := range report.Invalid {
		resp.Invalid = append(resp.Invalid, invalidResponse{ID: inv.ID, Address: inv.Address, Reason: inv.Reason})
	}

	return resp
}

type auditResponse struct {
	ID          string `json:"id"`
	WorkOrderID string `json:"work_order_id"`
	Action      string `json:"action"`
	ActorName   string `json:"actor_name"`
	ActorEmail  string `json:"actor_email"`
	Failure     string `json:"failure,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toAuditResponses(entries []audit.Entry) []auditResponse {
	out := make([]auditResponse, len(entries))

	for i, e := range entries {
		out[i] = auditResponse{
			ID:          e.ID.String(),
			WorkOrderID: e.WorkOrderID,
			Action:      e.Action,
			ActorName:   e.ActorName,
			ActorEmail:  e.ActorEmail,
			Failure:     e.Failure,
			CreatedAt:   e.CreatedAt.In(format.Pacific).Format(time.RFC3339),
		}
	}

	return out
}
