package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/config"
	"github.com/rpattn/portaldata/internal/db"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/repository/memory"
)

// Repositories bundles the storage ports the services depend on.
type Repositories struct {
	Studies       repository.StudyRepository
	Genes         repository.GeneRepository
	Samples       repository.SampleRepository
	Segments      repository.CopyNumberSegmentRepository
	ProteinArrays repository.ProteinArrayRepository

	close func()
}

// Close releases the underlying connection pool, if any.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// MemoryRepositories serves every port from one in-memory store.
func MemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Studies:       store,
		Genes:         store,
		Samples:       store,
		Segments:      store,
		ProteinArrays: store,
	}
}

// PostgresRepositories serves every port from one connection pool.
func PostgresRepositories(conn *db.Connection) *Repositories {
	return &Repositories{
		Studies:       repository.NewStudyRepository(conn.Pool),
		Genes:         repository.NewGeneRepository(conn.Pool),
		Samples:       repository.NewSampleRepository(conn.Pool),
		Segments:      repository.NewCopyNumberSegmentRepository(conn.Pool),
		ProteinArrays: repository.NewProteinArrayRepository(conn.Pool),
		close:         conn.Close,
	}
}

// OpenRepositories opens the configured storage driver. For postgres it
// applies pending migrations first when cfg.MigrateOnStart is set.
func OpenRepositories(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store, err := memory.LoadSeedFile(cfg.Storage.SeedFile)
		if err != nil {
			return nil, err
		}
		logger.Info("serving from in-memory store", zap.String("seed_file", cfg.Storage.SeedFile))
		return MemoryRepositories(store), nil
	case config.DriverPostgres:
		if cfg.MigrateOnStart {
			if err := db.RunMigrations(cfg.Database, logger); err != nil {
				return nil, err
			}
		}
		conn, err := db.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return PostgresRepositories(conn), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
