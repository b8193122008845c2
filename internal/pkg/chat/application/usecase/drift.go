package usecase

import (
	"context"
	"errors"
	"log"
	"time"
)

// DriftReport describes a fan-out write that failed after the record of
// truth was already committed. The thread's cached summary may now lag the
// message log until it is repaired.
type DriftReport struct {
	ThreadID  string    `json:"thread_id"`
	Operation string    `json:"operation"`
	Record    string    `json:"record"`
	Error     string    `json:"error"`
	At        time.Time `json:"at"`
}

// DriftReporter hands drift reports to whatever follows them up.
type DriftReporter interface {
	ReportDrift(ctx context.Context, r DriftReport) error
}

// MultiDriftReporter fans a report out to every reporter it holds.
type MultiDriftReporter []DriftReporter

func (m MultiDriftReporter) ReportDrift(ctx context.Context, r DriftReport) error {
	var errs []error
	for _, rep := range m {
		if rep == nil {
			continue
		}
		if err := rep.ReportDrift(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reportDrift always logs; the reporter, if any, gets the report on a
// context that outlives the request.
func reportDrift(ctx context.Context, rep DriftReporter, threadID, op, record string, cause error) {
	r := DriftReport{
		ThreadID:  threadID,
		Operation: op,
		Record:    record,
		At:        time.Now().UTC(),
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	log.Printf("messaging: drift thread=%s op=%s record=%s: %s", threadID, op, record, r.Error)
	if rep == nil {
		return
	}
	if err := rep.ReportDrift(context.WithoutCancel(ctx), r); err != nil {
		log.Printf("messaging: drift report failed thread=%s: %v", threadID, err)
	}
}
