// Package audit compares nesting recovered from compiled names with the nesting declared in
// sources. Disagreements are the known blind spots of the naming heuristics, not failures.
package audit

import (
	"sort"
	"strconv"

	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/inspector/java"
)

// Problems reported by Compare
const (
	Missing    = "missing"    // declared nested type absent from the compiled program
	Kind       = "kind"       // nested, local and anonymous were confused
	OuterName  = "outerName"  // recovered outer name differs
	SimpleName = "simpleName" // recovered simple name differs
	Static     = "static"     // static guess disagrees with the declaration
)

// Finding describes one disagreement
type Finding struct {
	Type      string `yaml:"type"`
	Problem   string `yaml:"problem"`
	Declared  string `yaml:"declared"`
	Recovered string `yaml:"recovered"`
}

// Compare checks every declared type against the recovered index
func Compare(index *innerclass.Index, declarations []*java.Declaration) []Finding {
	var findings []Finding
	for _, declaration := range declarations {
		record, kind, ok := index.Find(declaration.Name)
		if declaration.IsTopLevel() {
			if ok {
				findings = append(findings, Finding{Type: declaration.Name, Problem: Kind, Declared: "top-level", Recovered: kind.String()})
			}
			continue
		}
		if !ok {
			findings = append(findings, Finding{Type: declaration.Name, Problem: Missing, Declared: declaration.Kind.String()})
			continue
		}
		if kind != declaration.Kind {
			findings = append(findings, Finding{Type: declaration.Name, Problem: Kind, Declared: declaration.Kind.String(), Recovered: kind.String()})
			continue
		}
		if kind == innerclass.Nested && record.OuterName != declaration.Outer {
			findings = append(findings, Finding{Type: declaration.Name, Problem: OuterName, Declared: declaration.Outer, Recovered: record.OuterName})
		}
		if record.SimpleName != declaration.SimpleName {
			findings = append(findings, Finding{Type: declaration.Name, Problem: SimpleName, Declared: declaration.SimpleName, Recovered: record.SimpleName})
		}
		// InnerClasses never flags local and anonymous types static, only members are comparable
		if kind == innerclass.Nested && record.IsStatic() != declaration.IsStatic {
			findings = append(findings, Finding{
				Type:      declaration.Name,
				Problem:   Static,
				Declared:  strconv.FormatBool(declaration.IsStatic),
				Recovered: strconv.FormatBool(record.IsStatic()),
			})
		}
	}
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Type < findings[j].Type })
	return findings
}
