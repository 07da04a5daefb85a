package recorder

import (
	"time"

	"github.com/google/uuid"

	"IndexCompare/internal/model"
)

// ComparisonEvent holds the outcome of one comparison run.
type ComparisonEvent struct {
	RunID        string
	Timestamp    time.Time
	Trigger      model.TriggerType
	IndexA       string
	IndexB       string
	From         time.Time
	To           time.Time
	RowsA        int
	RowsB        int
	ChangeA      float64
	ChangeB      float64
	Status       model.RunStatus
	ErrorKind    model.ErrorKind
	ErrorMessage string
	Duration     time.Duration
}

// NewComparisonEvent starts an event for a run with a fresh run ID.
func NewComparisonEvent(trigger model.TriggerType, indexA, indexB string, r model.DateRange) *ComparisonEvent {
	return &ComparisonEvent{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Trigger:   trigger,
		IndexA:    indexA,
		IndexB:    indexB,
		From:      r.Start,
		To:        r.End,
	}
}

// Complete fills the event from the run result. Exactly one of cmp and err is expected to be set.
func (e *ComparisonEvent) Complete(cmp *model.Comparison, err error) {
	e.Duration = time.Since(e.Timestamp)
	if err != nil {
		e.Status = model.RunFailed
		e.ErrorKind = model.KindOf(err)
		e.ErrorMessage = err.Error()
		return
	}
	e.Status = model.RunOK
	e.RowsA = cmp.A.Len()
	e.RowsB = cmp.B.Len()
	e.ChangeA = cmp.PerfA.Change
	e.ChangeB = cmp.PerfB.Change
}

// Recorder persists the history of comparison runs.
type Recorder interface {
	RecordComparison(evt *ComparisonEvent) error
	Recent(limit int) ([]ComparisonEvent, error)
	Close() error
}
