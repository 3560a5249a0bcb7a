package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
	"github.com/viant/innerfix/innerclass"
)

// Unit is one compiled type travelling through the stages
type Unit struct {
	Path     string
	Name     string
	Class    *classfile.Class
	Injected []innerclass.Record
}

// Stage is an optional-change transformation applied to every unit.
// Setup runs once after the whole program is indexed, Apply runs concurrently per unit.
type Stage interface {
	Name() string
	Setup(ctx context.Context, types *inheritance.Index) error
	Apply(ctx context.Context, unit *Unit) (changed bool, err error)
}

// InnerClassStage restores InnerClasses attributes stripped from compiled types.
// It must run after any renaming stage, it relies on final names.
type InnerClassStage struct {
	builder *innerclass.Builder
	index   *innerclass.Index
}

// NewInnerClassStage creates a stage reconstructing records with builder
func NewInnerClassStage(builder *innerclass.Builder) *InnerClassStage {
	if builder == nil {
		builder = innerclass.NewBuilder()
	}
	return &InnerClassStage{builder: builder}
}

func (s *InnerClassStage) Name() string {
	return "inner-classes"
}

// Setup builds the outer index; the program index must be complete
func (s *InnerClassStage) Setup(ctx context.Context, types *inheritance.Index) error {
	if !types.Sealed() {
		return fmt.Errorf("%s: program index is not sealed", s.Name())
	}
	s.index = s.builder.Build(types)
	return nil
}

// Index returns the outer index built by Setup
func (s *InnerClassStage) Index() *innerclass.Index {
	return s.index
}

func (s *InnerClassStage) Apply(ctx context.Context, unit *Unit) (bool, error) {
	if s.index == nil {
		return false, fmt.Errorf("%s: stage was not set up", s.Name())
	}
	visit := innerclass.NewUnit(s.index)
	if err := visit.Start(unit.Name); err != nil {
		return false, err
	}
	existing, err := unit.Class.InnerClasses()
	if err != nil {
		return false, fmt.Errorf("failed to read inner classes of %s: %w", unit.Name, err)
	}
	for _, entry := range existing {
		if _, err = visit.Observe(innerclass.RecordOf(entry)); err != nil {
			return false, err
		}
	}
	injected, err := visit.End()
	if err != nil || !visit.Modified() {
		return false, err
	}
	entries := make([]classfile.InnerClass, 0, len(injected))
	for _, record := range injected {
		entries = append(entries, record.Entry())
	}
	if err = unit.Class.SetInnerClasses(entries); err != nil {
		return false, fmt.Errorf("failed to write inner classes of %s: %w", unit.Name, err)
	}
	unit.Injected = append(unit.Injected, injected...)
	return true, nil
}

// IsClass reports whether relative names a class file
func IsClass(relative string) bool {
	return strings.HasSuffix(relative, ".class")
}
