package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/collector"
	"github.com/checklogs/agent/internal/models"
)

// Assembler builds one snapshot per cycle from the registered collectors.
type Assembler struct {
	identity models.Identity
	registry *collector.Registry
	logger   *zap.Logger
}

// NewAssembler creates an Assembler that stamps every snapshot with identity.
func NewAssembler(identity models.Identity, registry *collector.Registry, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		identity: identity,
		registry: registry,
		logger:   logger,
	}
}

// Assemble runs every enabled collector once and merges the samples that
// were produced. now is the time assembly began and becomes the snapshot
// timestamp. Absent families are left unset; with nothing collected the
// snapshot carries identity and timestamp only.
func (a *Assembler) Assemble(ctx context.Context, now time.Time) models.Snapshot {
	snapshot := models.Snapshot{
		APIKey:     a.identity.APIKey,
		ServerName: a.identity.ServerName,
		Timestamp:  now.Unix(),
	}

	for _, res := range a.registry.CollectAll(ctx) {
		if res.Absent() {
			continue
		}
		switch data := res.Data.(type) {
		case models.CPUSample:
			snapshot.CPU = &data
		case models.RAMSample:
			snapshot.RAM = &data
		case []models.DiskSample:
			snapshot.Disk = data
		case models.LoadSample:
			snapshot.Load = &data
		case models.UptimeSample:
			snapshot.Uptime = &data
		case []models.ProcessSample:
			snapshot.Processes = data
		default:
			a.logger.Warn("Ignoring result of unknown type",
				zap.String("collector", res.Name))
		}
	}

	return snapshot
}
