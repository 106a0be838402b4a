package stats

import "github.com/jobtrack/jobtrack/internal/domain"

// FlowStages are the in-pipeline statuses.
type FlowStages struct {
	Applied            int `json:"applied"`
	InterviewScheduled int `json:"interviewScheduled"`
	InterviewCompleted int `json:"interviewCompleted"`
	OfferReceived      int `json:"offerReceived"`
}

// FlowDropOffs are the applications that left the pipeline.
type FlowDropOffs struct {
	Rejected               int `json:"rejected"`
	Withdrawn              int `json:"withdrawn"`
	RejectedAfterInterview int `json:"rejectedAfterInterview"`
}

// Flow is the application-flow diagram.
type Flow struct {
	Stages   FlowStages   `json:"stages"`
	DropOffs FlowDropOffs `json:"dropOffs"`
}

// StageCount is one step of the conversion funnel.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// ConversionFlow is the funnel from Applied to Offer Received.
type ConversionFlow struct {
	Stages                 []StageCount `json:"stages"`
	RejectedAfterInterview int          `json:"rejectedAfterInterview"`
}

// StatusInsights summarizes the status breakdown.
type StatusInsights struct {
	TopStatus     string `json:"topStatus"`
	TopCount      int    `json:"topCount"`
	RejectionRate int    `json:"rejectionRate"`
	Total         int    `json:"total"`
}

var funnel = []string{
	domain.StatusApplied,
	domain.StatusInterviewScheduled,
	domain.StatusInterviewCompleted,
	domain.StatusOfferReceived,
}

// interviewed returns the ids of applications with at least one round.
func interviewed(interviews []domain.InterviewRound) map[string]struct{} {
	ids := make(map[string]struct{}, len(interviews))
	for _, iv := range interviews {
		if iv.ApplicationID != nil && *iv.ApplicationID != "" {
			ids[*iv.ApplicationID] = struct{}{}
		}
	}
	return ids
}

// RejectedAfterInterview counts rejected applications that had at least one
// interview round. Several rounds for one application count it once.
func RejectedAfterInterview(apps []domain.Application, interviews []domain.InterviewRound) int {
	ids := interviewed(interviews)
	n := 0
	for _, a := range apps {
		if a.Status != domain.StatusRejected {
			continue
		}
		if _, ok := ids[a.ID]; ok {
			n++
		}
	}
	return n
}

// BuildFlow places every application in exactly one stage or drop-off.
// Applications with an unrecognized status are not counted.
func BuildFlow(apps []domain.Application, interviews []domain.InterviewRound) Flow {
	var fl Flow
	for _, a := range apps {
		switch a.Status {
		case domain.StatusApplied:
			fl.Stages.Applied++
		case domain.StatusInterviewScheduled:
			fl.Stages.InterviewScheduled++
		case domain.StatusInterviewCompleted:
			fl.Stages.InterviewCompleted++
		case domain.StatusOfferReceived:
			fl.Stages.OfferReceived++
		case domain.StatusRejected:
			fl.DropOffs.Rejected++
		case domain.StatusWithdrawn:
			fl.DropOffs.Withdrawn++
		}
	}
	fl.DropOffs.RejectedAfterInterview = RejectedAfterInterview(apps, interviews)
	return fl
}

// BuildConversionFlow returns the funnel stages in pipeline order.
func BuildConversionFlow(apps []domain.Application, interviews []domain.InterviewRound) ConversionFlow {
	counts := Breakdown(apps)
	cf := ConversionFlow{Stages: make([]StageCount, len(funnel))}
	for i, s := range funnel {
		cf.Stages[i] = StageCount{Stage: s, Count: counts[s]}
	}
	cf.RejectedAfterInterview = RejectedAfterInterview(apps, interviews)
	return cf
}

// BuildStatusInsights reports the most common status and the share of
// applications that were rejected or withdrawn. Ties on the top status go to
// the earlier status in pipeline order.
func BuildStatusInsights(apps []domain.Application) StatusInsights {
	counts := Breakdown(apps)
	si := StatusInsights{TopStatus: domain.StatusApplied, Total: len(apps)}
	for _, s := range domain.ApplicationStatuses {
		if counts[s] > si.TopCount {
			si.TopStatus, si.TopCount = s, counts[s]
		}
	}
	si.RejectionRate = Rate(counts[domain.StatusRejected]+counts[domain.StatusWithdrawn], len(apps))
	return si
}
