package client

import (
	"errors"

	"go.uber.org/zap"

	"goal-roadmap/internal/domain"
)

// Observer recibe el resultado de cada envío.
type Observer interface {
	OnSuccess(goal string, resp domain.GoalResponse)
	OnFailure(goal string, err error)
}

// LogObserver reporta resultados a un logger zap.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnSuccess(goal string, resp domain.GoalResponse) {
	fields := []zap.Field{
		zap.String("goal", goal),
		zap.Int("status", resp.StatusCode),
		zap.String("response", string(resp.Body)),
	}
	if resp.Roadmap != nil {
		fields = append(fields, zap.Int("topics", len(resp.Roadmap.Topics)))
	}
	o.logger.Info("roadmap received", fields...)
}

func (o *LogObserver) OnFailure(goal string, err error) {
	var rcf *RemoteCallFailure
	if errors.As(err, &rcf) && rcf.Superseded {
		o.logger.Info("submission superseded", zap.String("goal", goal))
		return
	}
	o.logger.Error("roadmap request failed", zap.String("goal", goal), zap.Error(err))
}

// ObserverFunc adapta dos funciones a Observer.
type ObserverFunc struct {
	Success func(goal string, resp domain.GoalResponse)
	Failure func(goal string, err error)
}

func (f ObserverFunc) OnSuccess(goal string, resp domain.GoalResponse) {
	if f.Success != nil {
		f.Success(goal, resp)
	}
}

func (f ObserverFunc) OnFailure(goal string, err error) {
	if f.Failure != nil {
		f.Failure(goal, err)
	}
}

// MultiObserver reenvía a varios observers en orden.
type MultiObserver []Observer

func (m MultiObserver) OnSuccess(goal string, resp domain.GoalResponse) {
	for _, o := range m {
		o.OnSuccess(goal, resp)
	}
}

func (m MultiObserver) OnFailure(goal string, err error) {
	for _, o := range m {
		o.OnFailure(goal, err)
	}
}
