package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/logger"
	"golang.org/x/sync/errgroup"
)

// UnitResult describes a rewritten unit
type UnitResult struct {
	Path       string              `yaml:"path"`
	Name       string              `yaml:"name"`
	Injected   []innerclass.Record `yaml:"injected,omitempty"`
	InputHash  uint64              `yaml:"inputHash"`
	OutputHash uint64              `yaml:"outputHash"`
}

// Result summarizes a run
type Result struct {
	Files    int           `yaml:"files"`
	Classes  int           `yaml:"classes"`
	Skipped  []string      `yaml:"skipped,omitempty"` // class files copied unchanged because they are malformed
	Modified int           `yaml:"modified"`
	Copied   int           `yaml:"copied"`
	Units    []*UnitResult `yaml:"units,omitempty"`
}

// Runner indexes a whole program, then applies stages to every unit
type Runner struct {
	source    Source
	workers   int
	cacheSize int
	log       *logger.Logger
	stages    []Stage
}

type loaded struct {
	data  []byte
	class *classfile.Class
}

// program is the outcome of the indexing phase
type program struct {
	paths   []string
	names   []string // unit name per path, "" when not an indexed class
	skipped []string
	types   *inheritance.Index
	cache   *lru.Cache[string, *loaded]
}

// NewRunner creates a runner reading from source
func NewRunner(source Source, options ...Option) *Runner {
	r := &Runner{source: source, workers: 4, cacheSize: 1024, log: logger.NewNop()}
	for _, opt := range options {
		opt(r)
	}
	if len(r.stages) == 0 {
		r.stages = []Stage{NewInnerClassStage(nil)}
	}
	return r
}

// Index runs the indexing phase only and returns the sealed program index
func (r *Runner) Index(ctx context.Context) (*inheritance.Index, error) {
	p, err := r.index(ctx)
	if err != nil {
		return nil, err
	}
	return p.types, nil
}

// Run indexes the program, sets up stages and writes every file to sink.
// Units no stage changed are copied byte for byte.
func (r *Runner) Run(ctx context.Context, sink Sink) (*Result, error) {
	p, err := r.index(ctx)
	if err != nil {
		return nil, err
	}
	for _, stage := range r.stages {
		if err = stage.Setup(ctx, p.types); err != nil {
			return nil, fmt.Errorf("failed to set up stage %s: %w", stage.Name(), err)
		}
		r.log.WithStage(stage.Name()).Debugw("stage ready", "classes", p.types.Len())
	}

	if from, ok := r.source.(headerSource); ok {
		if to, ok := sink.(headerSink); ok {
			to.inherit(from.headers())
		}
	}

	started := time.Now()
	result := &Result{Files: len(p.paths), Classes: p.types.Len(), Skipped: append([]string(nil), p.skipped...)}
	var mux sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, relative := range p.paths {
		i, relative := i, relative
		group.Go(func() error {
			data, unitResult, skipped, err := r.process(groupCtx, p, relative, p.names[i])
			if err != nil {
				return err
			}
			if err = sink.Write(groupCtx, relative, data); err != nil {
				return fmt.Errorf("failed to write %s: %w", relative, err)
			}
			mux.Lock()
			defer mux.Unlock()
			if unitResult != nil {
				result.Units = append(result.Units, unitResult)
			}
			if skipped {
				result.Skipped = append(result.Skipped, relative)
			}
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}
	if err = sink.Close(ctx); err != nil {
		return nil, fmt.Errorf("failed to close output: %w", err)
	}
	sort.Slice(result.Units, func(i, j int) bool { return result.Units[i].Path < result.Units[j].Path })
	sort.Strings(result.Skipped)
	result.Modified = len(result.Units)
	result.Copied = result.Files - result.Modified
	r.log.Infow("rewrote program", "files", result.Files, "modified", result.Modified, "copied", result.Copied, "elapsed", time.Since(started))
	return result, nil
}

func (r *Runner) index(ctx context.Context) (*program, error) {
	started := time.Now()
	paths, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	p := &program{paths: paths, names: make([]string, len(paths)), types: inheritance.NewIndex()}
	if r.cacheSize > 0 {
		if p.cache, err = lru.New[string, *loaded](r.cacheSize); err != nil {
			return nil, err
		}
	}

	infos := make([]*inheritance.TypeInfo, len(paths))
	var mux sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, relative := range paths {
		if !IsClass(relative) {
			continue
		}
		i, relative := i, relative
		group.Go(func() error {
			unit, err := r.load(groupCtx, p, relative)
			if err == nil {
				infos[i], err = inheritance.FromClass(unit.class)
			}
			if errors.Is(err, classfile.ErrMalformed) {
				r.log.Warnw("skipping undecodable class", "path", relative, "error", err)
				mux.Lock()
				p.skipped = append(p.skipped, relative)
				mux.Unlock()
				return nil
			}
			return err
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}

	// insertion in path order keeps record order stable between runs
	for i, info := range infos {
		if info == nil {
			continue
		}
		if err = p.types.Add(info); err != nil {
			return nil, err
		}
		p.names[i] = info.Name
	}
	p.types.Seal()
	sort.Strings(p.skipped)
	r.log.Infow("indexed program", "files", len(paths), "classes", p.types.Len(), "skipped", len(p.skipped), "elapsed", time.Since(started))
	return p, nil
}

func (r *Runner) load(ctx context.Context, p *program, relative string) (*loaded, error) {
	if p.cache != nil {
		if unit, ok := p.cache.Get(relative); ok {
			return unit, nil
		}
	}
	data, err := r.source.Read(ctx, relative)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relative, err)
	}
	class, err := classfile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", relative, err)
	}
	unit := &loaded{data: data, class: class}
	if p.cache != nil {
		p.cache.Add(relative, unit)
	}
	return unit, nil
}

// process returns the bytes to write for one file and, when a stage changed it, its result.
// A class whose attributes turn out malformed is copied unchanged and reported as skipped.
func (r *Runner) process(ctx context.Context, p *program, relative, name string) ([]byte, *UnitResult, bool, error) {
	if name == "" {
		data, err := r.source.Read(ctx, relative)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to read %s: %w", relative, err)
		}
		return data, nil, false, nil
	}
	source, err := r.load(ctx, p, relative)
	if err != nil {
		return nil, nil, false, err
	}
	unit := &Unit{Path: relative, Name: name, Class: source.class}
	changed := false
	for _, stage := range r.stages {
		stageChanged, err := stage.Apply(ctx, unit)
		if errors.Is(err, classfile.ErrMalformed) {
			r.log.WithUnit(name).Warnw("skipping unit with malformed attributes", "path", relative, "stage", stage.Name(), "error", err)
			return source.data, nil, true, nil
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("stage %s failed on %s: %w", stage.Name(), name, err)
		}
		changed = changed || stageChanged
	}
	if !changed {
		return source.data, nil, false, nil
	}
	output := unit.Class.Encode()
	unitResult := &UnitResult{Path: relative, Name: name, Injected: unit.Injected}
	if unitResult.InputHash, err = Fingerprint(source.data); err != nil {
		return nil, nil, false, err
	}
	if unitResult.OutputHash, err = Fingerprint(output); err != nil {
		return nil, nil, false, err
	}
	r.log.WithUnit(name).Debugw("rewrote unit", "records", len(unit.Injected))
	return output, unitResult, false, nil
}
