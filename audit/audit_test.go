package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/innerfix/audit"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/inspector/java"
)

const source = `package p;
public class Outer {
    class Inner {
        class Deeper {
        }
    }
    static class Nested {
    }
    static class Shadow {
        private Object this$0;
    }
    void run() {
        class Local {
        }
        Object o = new Object() {
        };
    }
    static class Lost {
    }
}
`

func TestCompare(t *testing.T) {
	declarations, err := java.NewInspector(nil).InspectSource(context.Background(), []byte(source))
	require.NoError(t, err)

	// the compiled program as javac would emit it, minus p/Outer$Lost
	types := inheritance.NewIndex()
	for _, declaration := range declarations {
		if declaration.Name == "p/Outer$Lost" {
			continue
		}
		require.NoError(t, types.Add(declaration.TypeInfo()))
	}
	// a top-level type whose name looks nested
	require.NoError(t, types.Add(&inheritance.TypeInfo{Name: "p/Outer$Fake", Access: classfile.AccSuper}))
	types.Seal()
	declarations = append(declarations, &java.Declaration{Name: "p/Outer$Fake", SimpleName: "Outer$Fake", IsStatic: true})

	findings := audit.Compare(innerclass.Build(types), declarations)
	assert.Equal(t, []audit.Finding{
		{Type: "p/Outer$Fake", Problem: audit.Kind, Declared: "top-level", Recovered: "nested"},
		{Type: "p/Outer$Inner$Deeper", Problem: audit.Static, Declared: "false", Recovered: "true"},
		{Type: "p/Outer$Lost", Problem: audit.Missing, Declared: "nested"},
		{Type: "p/Outer$Shadow", Problem: audit.Static, Declared: "true", Recovered: "false"},
	}, findings)
}

func TestCompare_Clean(t *testing.T) {
	declarations, err := java.NewInspector(nil).InspectSource(context.Background(), []byte(`package p;
class A {
    class B {
    }
    static class C {
    }
}`))
	require.NoError(t, err)
	types, err := java.Index(declarations)
	require.NoError(t, err)
	assert.Empty(t, audit.Compare(innerclass.Build(types), declarations))
}
