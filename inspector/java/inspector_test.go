package java_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/inspector/java"
)

const outerSource = `package com.acme;

public class Outer {
    private int count;

    public static class Nested {
    }

    class Inner {
        class Deeper {
        }
        Runnable task = new Runnable() {
            public void run() {
            }
        };
    }

    interface Callback {
        class Impl {
        }
    }

    enum Mode {
        A, B {
        }
    }

    void run() {
        class Local {
        }
        Runnable r = new Runnable() {
            public void run() {
                class Local {
                }
            }
        };
    }

    static void helper() {
        class Local {
        }
        Object o = new Object() {
        };
    }
}
`

func TestInspector_InspectSource(t *testing.T) {
	inspector := java.NewInspector(nil)
	declarations, err := inspector.InspectSource(context.Background(), []byte(outerSource))
	require.NoError(t, err)

	type expect struct {
		name       string
		outer      string
		simpleName string
		kind       innerclass.Kind
		isStatic   bool
		outerField string
	}
	expected := []expect{
		{name: "com/acme/Outer", simpleName: "Outer", isStatic: true},
		{name: "com/acme/Outer$Nested", outer: "com/acme/Outer", simpleName: "Nested", kind: innerclass.Nested, isStatic: true},
		{name: "com/acme/Outer$Inner", outer: "com/acme/Outer", simpleName: "Inner", kind: innerclass.Nested, outerField: "this$0"},
		{name: "com/acme/Outer$Inner$Deeper", outer: "com/acme/Outer$Inner", simpleName: "Deeper", kind: innerclass.Nested, outerField: "this$1"},
		{name: "com/acme/Outer$Inner$1", outer: "com/acme/Outer$Inner", kind: innerclass.Anonymous, outerField: "this$1"},
		{name: "com/acme/Outer$Callback", outer: "com/acme/Outer", simpleName: "Callback", kind: innerclass.Nested, isStatic: true},
		{name: "com/acme/Outer$Callback$Impl", outer: "com/acme/Outer$Callback", simpleName: "Impl", kind: innerclass.Nested, isStatic: true},
		{name: "com/acme/Outer$Mode", outer: "com/acme/Outer", simpleName: "Mode", kind: innerclass.Nested, isStatic: true},
		{name: "com/acme/Outer$Mode$1", outer: "com/acme/Outer$Mode", kind: innerclass.Anonymous, isStatic: true},
		{name: "com/acme/Outer$1Local", outer: "com/acme/Outer", simpleName: "Local", kind: innerclass.Local, outerField: "this$0"},
		{name: "com/acme/Outer$1", outer: "com/acme/Outer", kind: innerclass.Anonymous, outerField: "this$0"},
		{name: "com/acme/Outer$1$1Local", outer: "com/acme/Outer$1", simpleName: "Local", kind: innerclass.Local, outerField: "this$1"},
		{name: "com/acme/Outer$2Local", outer: "com/acme/Outer", simpleName: "Local", kind: innerclass.Local, isStatic: true},
		{name: "com/acme/Outer$2", outer: "com/acme/Outer", kind: innerclass.Anonymous, isStatic: true},
	}
	require.Len(t, declarations, len(expected))
	for i, want := range expected {
		actual := declarations[i]
		assert.Equal(t, want.name, actual.Name)
		assert.Equal(t, want.outer, actual.Outer, want.name)
		assert.Equal(t, want.simpleName, actual.SimpleName, want.name)
		assert.Equal(t, want.kind, actual.Kind, want.name)
		assert.Equal(t, want.isStatic, actual.IsStatic, want.name)
		assert.Equal(t, want.outerField, actual.OuterField(), want.name)
	}

	outer := declarations[0]
	require.Len(t, outer.Fields, 1)
	assert.Equal(t, "count", outer.Fields[0].Name)
	assert.Equal(t, classfile.AccPrivate, outer.Fields[0].Access)
}

func TestDeclaration_TypeInfo(t *testing.T) {
	inspector := java.NewInspector(nil)
	declarations, err := inspector.InspectSource(context.Background(), []byte(`package p;
class A {
    protected class B {
        private String this$0;
    }
    private static final class C {
    }
    interface D {
    }
}`))
	require.NoError(t, err)
	require.Len(t, declarations, 4)

	b := declarations[1].TypeInfo()
	assert.Equal(t, "p/A$B", b.Name)
	assert.Equal(t, classfile.AccPublic|classfile.AccSuper, b.Access)
	require.Len(t, b.Fields, 2)
	assert.True(t, b.HasInstanceField("this$0"))

	c := declarations[2].TypeInfo()
	assert.Equal(t, classfile.AccFinal|classfile.AccSuper, c.Access)
	assert.Empty(t, c.Fields)

	d := declarations[3].TypeInfo()
	assert.Equal(t, classfile.AccInterface|classfile.AccAbstract, d.Access)

	index, err := java.Index(declarations)
	require.NoError(t, err)
	assert.True(t, index.Sealed())
	records := innerclass.Build(index).Lookup("p/A")
	require.Len(t, records, 3)
	assert.False(t, records[0].IsStatic())
	assert.True(t, records[1].IsStatic())
	assert.True(t, records[2].IsStatic())
}

func TestInspector_InspectPackages(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "com", "acme"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "target"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "com", "acme", "Outer.java"), []byte(outerSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "com", "acme", "Other.java"), []byte("package com.acme;\nclass Other {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "target", "Skipped.java"), []byte("class Skipped {}\n"), 0644))

	declarations, err := java.NewInspector(nil).InspectPackages(context.Background(), root)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, declaration := range declarations {
		names[declaration.Name] = true
	}
	assert.True(t, names["com/acme/Other"])
	assert.True(t, names["com/acme/Outer$1$1Local"])
	assert.False(t, names["Skipped"])
	assert.Len(t, declarations, 15)
}
