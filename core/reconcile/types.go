package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Scope names an entity type reconciled by a run.
type Scope string

const (
	ScopeArtists Scope = "artists"
	ScopeItems   Scope = "items"
	ScopeOrders  Scope = "orders"
	ScopeAll     Scope = "all"
)

// ParseScope maps a CLI or HTTP argument to a Scope.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeArtists, ScopeItems, ScopeOrders, ScopeAll:
		return Scope(s), true
	case "":
		return ScopeAll, true
	default:
		return "", false
	}
}

// Event reports progress of a run, one per fetched page.
type Event struct {
	Scope      Scope
	ArtistID   int64
	Page       int
	TotalPages int
	Records    int
}

// Observer receives progress events. It is called synchronously from the run.
type Observer func(Event)

// Run is the state of one reconciliation invocation.
// It is created per call and never shared between calls.
type Run struct {
	// ID correlates the log lines of one run.
	ID string
	// Watermark is stamped onto every item touched by the run.
	Watermark time.Time
	// StartedAt is the wall clock start of the run.
	StartedAt time.Time

	observer Observer
}

// NewRun starts a run. The watermark is truncated to whole seconds so it
// compares equal after a round trip through a DATETIME column.
func NewRun(observer Observer) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:        uuid.NewString(),
		Watermark: now.Truncate(time.Second),
		StartedAt: now,
		observer:  observer,
	}
}

// Notify forwards a progress event to the observer, if any.
func (r *Run) Notify(e Event) {
	if r != nil && r.observer != nil {
		r.observer(e)
	}
}

// Result summarises one entity type of a run.
type Result struct {
	Scope Scope `json:"scope"`
	// Skipped is set when the run short-circuited, with Reason explaining why.
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
	// Pages is the number of remote pages fetched.
	Pages int `json:"pages"`
	// Upserted counts inserted or refreshed parent rows.
	Upserted int `json:"upserted"`
	// Children counts inserted child rows (tags, images, order items).
	Children int `json:"children"`
	// Deleted counts stray parent rows removed.
	Deleted int64 `json:"deleted"`
	// Orphans counts child rows removed by referential cleanup.
	Orphans int64 `json:"orphans"`
	// Watermark is the run watermark for item runs.
	Watermark time.Time     `json:"watermark"`
	Duration  time.Duration `json:"duration"`
}

// Report bundles the results of an orchestrated run.
type Report struct {
	RunID    string        `json:"run_id"`
	Skipped  bool          `json:"skipped"`
	Reason   string        `json:"reason,omitempty"`
	Results  []Result      `json:"results"`
	Duration time.Duration `json:"duration"`
}
