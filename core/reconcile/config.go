package reconcile

// Config holds reconciliation behaviour settings.
type Config struct {
	// Prefetch reads artists and offers from storage snapshots before asking the API.
	Prefetch bool `mapstructure:"prefetch" default:"false"`
	// Snapshot writes the fetched artists and offers back to storage after a run.
	Snapshot bool `mapstructure:"snapshot" default:"false"`
	// SnapshotPrefix is the object key prefix for snapshots.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"prefetch"`
	// SweepScope selects how stray items are detected: "artist" or "global".
	SweepScope string `mapstructure:"sweep_scope" default:"artist"`
}

const (
	// SweepPerArtist removes an artist's strays only once all of its pages were fetched.
	SweepPerArtist = "artist"
	// SweepGlobal removes every item older than the run watermark at the end of the run.
	SweepGlobal = "global"
)

// GlobalSweep reports whether the single end-of-run sweep is configured.
func (c Config) GlobalSweep() bool {
	return c.SweepScope == SweepGlobal
}
