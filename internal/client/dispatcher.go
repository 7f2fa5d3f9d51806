package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"goal-roadmap/internal/domain"
)

type goalSubmitter interface {
	Submit(ctx context.Context, goal string) (domain.GoalResponse, error)
}

// Dispatcher lanza cada envío en su propia goroutine para no bloquear la captura.
// Con supersede, un envío nuevo cancela los que siguen en vuelo.
type Dispatcher struct {
	submitter goalSubmitter
	supersede bool
	logger    *zap.Logger

	mu       sync.Mutex
	seq      uint64
	inFlight map[uint64]context.CancelCauseFunc
	wg       sync.WaitGroup
}

func NewDispatcher(logger *zap.Logger, submitter goalSubmitter, supersede bool) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		submitter: submitter,
		supersede: supersede,
		logger:    logger,
		inFlight:  make(map[uint64]context.CancelCauseFunc),
	}
}

// Dispatch inicia el envío de goal y vuelve enseguida.
func (d *Dispatcher) Dispatch(ctx context.Context, goal string) {
	callCtx, cancel := context.WithCancelCause(ctx)

	d.mu.Lock()
	if d.supersede {
		for id, stale := range d.inFlight {
			stale(ErrSuperseded)
			delete(d.inFlight, id)
		}
	}
	d.seq++
	id := d.seq
	d.inFlight[id] = cancel
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.release(id, cancel)
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("submission panicked", zap.String("goal", goal), zap.Any("panic", r))
			}
		}()
		// El Observer ya recibió el resultado; aquí no hay nada más que propagar.
		_, _ = d.submitter.Submit(callCtx, goal)
	}()
}

func (d *Dispatcher) release(id uint64, cancel context.CancelCauseFunc) {
	d.mu.Lock()
	delete(d.inFlight, id)
	d.mu.Unlock()
	cancel(nil)
}

// InFlight devuelve cuántos envíos siguen pendientes.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inFlight)
}

// Wait bloquea hasta que terminen todos los envíos lanzados.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancela lo que siga en vuelo y espera a que termine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	for id, cancel := range d.inFlight {
		cancel(context.Canceled)
		delete(d.inFlight, id)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
