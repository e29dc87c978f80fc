package server

import (
	"context"

	"github.com/metabolica/metanet/internal/graphstore"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies export-target connectivity as part of health
// checks. A nil client means export is disabled and the probe passes.
type GraphHealthService struct {
	Client graphstore.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
