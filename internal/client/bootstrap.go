package client

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Modos de bootstrap: llamar al endpoint con una meta fija o sondear la raiz del servicio.
const (
	BootstrapModeEndpoint = "endpoint"
	BootstrapModeRoot     = "root"
)

type bootstrapTarget interface {
	goalSubmitter
	Ping(ctx context.Context) error
}

// Bootstrapper hace la llamada de calentamiento una sola vez por proceso.
type Bootstrapper struct {
	target bootstrapTarget
	mode   string
	goal   string
	logger *zap.Logger

	once sync.Once
	err  error
}

func NewBootstrapper(logger *zap.Logger, target bootstrapTarget, mode, goal string) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != BootstrapModeRoot {
		mode = BootstrapModeEndpoint
	}
	return &Bootstrapper{
		target: target,
		mode:   mode,
		goal:   goal,
		logger: logger,
	}
}

// Run ejecuta el bootstrap la primera vez; las llamadas siguientes devuelven el mismo resultado.
func (b *Bootstrapper) Run(ctx context.Context) error {
	b.once.Do(func() {
		b.logger.Info("bootstrap call", zap.String("mode", b.mode))
		if b.mode == BootstrapModeRoot {
			b.err = b.target.Ping(ctx)
		} else {
			_, b.err = b.target.Submit(ctx, b.goal)
		}
		if b.err != nil {
			b.logger.Warn("bootstrap call failed", zap.Error(b.err))
		}
	})
	return b.err
}
