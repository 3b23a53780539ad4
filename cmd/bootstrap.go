package cmd

import (
	"fmt"

	"catalog-mirror/core/config"
	"catalog-mirror/core/database"
	"catalog-mirror/core/logger"
	"catalog-mirror/core/remote"
	"catalog-mirror/core/storage"
	"catalog-mirror/feature/catalog/syncer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is the wiring shared by the commands.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// setup loads the configuration, builds the logger and connects to the database.
func setup() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	return &env{cfg: cfg, log: logg, db: db}, nil
}

// newSyncer builds the syncer. Storage is only needed when snapshots are read or written;
// store may be nil otherwise.
func (e *env) newSyncer(store storage.Client) (*syncer.Syncer, error) {
	client, err := remote.NewClient(e.cfg.Remote, e.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote client: %w", err)
	}

	var source remote.Client = client
	if e.cfg.Sync.Prefetch || e.cfg.Sync.Snapshot {
		if store == nil {
			return nil, fmt.Errorf("snapshots are enabled but storage is not configured")
		}
		source = syncer.NewSnapshotSource(client, store, e.cfg.Storage.Bucket, e.cfg.Sync, e.log)
	}

	return syncer.New(e.db, source, e.log, syncer.Options{
		ArtistIDs:      e.cfg.Remote.ArtistIDList(),
		CredentialsSet: e.cfg.Remote.HasCredentials(),
		GlobalSweep:    e.cfg.Sync.GlobalSweep(),
	}), nil
}
