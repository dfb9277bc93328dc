package editor

import (
	"context"

	"evaluation/internal/client"
	"evaluation/internal/model"

	"go.uber.org/zap"
)

// Backend is the part of the REST client the editor drives.
type Backend interface {
	List(ctx context.Context, res client.Resource, sort *client.Sort) ([]model.Record, error)
	Put(ctx context.Context, rec model.Record) error
	Average(ctx context.Context) (model.AverageSummary, error)
}

type Editor struct {
	backend Backend
	log     *zap.Logger
}

func New(backend Backend, log *zap.Logger) *Editor {
	return &Editor{backend: backend, log: log.Named("editor")}
}

// Load fetches the view's collection and replaces it in received order.
func (e *Editor) Load(ctx context.Context, vm ViewModel) ViewModel {
	records, err := e.backend.List(ctx, vm.Resource, vm.Sort)
	if err != nil {
		e.log.Warn("load failed", zap.String("resource", vm.Resource.Path), zap.Error(err))
	}
	return Loaded(vm, records, err)
}

// Add writes the bound form as one new row and reloads the collection. When
// the write fails the collection is left as it was.
func (e *Editor) Add(ctx context.Context, vm ViewModel) ViewModel {
	rec := vm.Form.Record()
	err := e.backend.Put(ctx, rec)
	if err != nil {
		e.log.Warn("add failed", zap.String("name", rec.Name), zap.Error(err))
	}
	vm = Submitted(vm, err)
	if err != nil {
		return vm
	}
	return e.Load(ctx, vm)
}

// Averages fetches the panel average into the average slot.
func (e *Editor) Averages(ctx context.Context, vm ViewModel) ViewModel {
	avg, err := e.backend.Average(ctx)
	if err != nil {
		e.log.Warn("average failed", zap.Error(err))
	}
	return Averaged(vm, avg, err)
}
