package java

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/afs"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
	"github.com/viant/innerfix/innerclass"
)

// Inspector derives the declared nesting of Java types from source code
type Inspector struct {
	fs afs.Service
}

// NewInspector creates a Java Inspector reading sources with fs
func NewInspector(fs afs.Service) *Inspector {
	if fs == nil {
		fs = afs.New()
	}
	return &Inspector{fs: fs}
}

// InspectSource parses Java source code from a byte slice and extracts declared types
func (i *Inspector) InspectSource(ctx context.Context, src []byte) ([]*Declaration, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	v := &visitor{source: src, taken: make(map[string]bool)}
	v.visitFile(tree.RootNode())
	return v.declarations, nil
}

// InspectFile parses a Java source file and extracts declared types
func (i *Inspector) InspectFile(ctx context.Context, URL string) ([]*Declaration, error) {
	src, err := i.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", URL, err)
	}
	declarations, err := i.InspectSource(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", URL, err)
	}
	return declarations, nil
}

// Index builds a sealed program index of the compiled view of declarations
func Index(declarations []*Declaration) (*inheritance.Index, error) {
	index := inheritance.NewIndex()
	for _, declaration := range declarations {
		if err := index.Add(declaration.TypeInfo()); err != nil {
			return nil, err
		}
	}
	index.Seal()
	return index, nil
}

// visitor walks one compilation unit and names types the way javac does
type visitor struct {
	source       []byte
	pkg          string
	taken        map[string]bool
	declarations []*Declaration
}

func (v *visitor) visitFile(root *sitter.Node) {
	for j := uint32(0); j < root.NamedChildCount(); j++ {
		child := root.NamedChild(int(j))
		switch {
		case child.Type() == "package_declaration":
			if name := parsePackageDeclaration(child, v.source); name != "" {
				v.pkg = strings.ReplaceAll(name, ".", "/") + "/"
			}
		case isTypeDeclaration(child):
			name := v.simpleName(child)
			if name == "" {
				continue
			}
			declaration := v.declare(&Declaration{
				Name:       v.pkg + name,
				SimpleName: name,
				Access:     parseModifiers(child) | typeDeclarationKinds[child.Type()],
				IsStatic:   true,
			})
			v.visitType(declaration, child)
		}
	}
}

func (v *visitor) simpleName(node *sitter.Node) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return nameNode.Content(v.source)
}

func (v *visitor) declare(declaration *Declaration) *Declaration {
	v.taken[declaration.Name] = true
	v.declarations = append(v.declarations, declaration)
	return declaration
}

// localName returns the lowest free javac name for a local (simple != "") or anonymous type
func (v *visitor) localName(enclosing, simple string) string {
	for i := 1; ; i++ {
		candidate := enclosing + string(innerclass.DefaultSeparator) + strconv.Itoa(i) + simple
		if !v.taken[candidate] {
			return candidate
		}
	}
}

func (v *visitor) visitType(declaration *Declaration, node *sitter.Node) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	v.visitBody(declaration, body)
}

func (v *visitor) visitBody(declaration *Declaration, body *sitter.Node) {
	inInterface := declaration.Access&classfile.AccInterface != 0
	for j := uint32(0); j < body.NamedChildCount(); j++ {
		child := body.NamedChild(int(j))
		switch child.Type() {
		case "field_declaration", "constant_declaration":
			fields := parseFieldDeclaration(child, v.source, inInterface)
			declaration.Fields = append(declaration.Fields, fields...)
			v.scan(declaration, child, len(fields) > 0 && fields[0].IsStatic())
		case "method_declaration":
			v.scan(declaration, child, parseModifiers(child)&classfile.AccStatic != 0)
		case "constructor_declaration", "compact_constructor_declaration", "block":
			v.scan(declaration, child, false)
		case "static_initializer":
			v.scan(declaration, child, true)
		case "enum_body_declarations":
			v.visitBody(declaration, child)
		case "enum_constant":
			v.visitEnumConstant(declaration, child)
		default:
			if isTypeDeclaration(child) {
				v.visitMember(declaration, child, inInterface)
			}
		}
	}
}

func (v *visitor) visitMember(outer *Declaration, node *sitter.Node, inInterface bool) {
	name := v.simpleName(node)
	if name == "" {
		return
	}
	access := parseModifiers(node) | typeDeclarationKinds[node.Type()]
	if inInterface {
		access |= classfile.AccPublic | classfile.AccStatic
	}
	member := v.declare(&Declaration{
		Name:       outer.Name + string(innerclass.DefaultSeparator) + name,
		Outer:      outer.Name,
		SimpleName: name,
		Kind:       innerclass.Nested,
		Access:     access,
		IsStatic:   access&classfile.AccStatic != 0 || implicitlyStatic(node.Type()),
		Depth:      outer.Depth + 1,
	})
	v.visitType(member, node)
}

func (v *visitor) visitEnumConstant(declaration *Declaration, node *sitter.Node) {
	var body *sitter.Node
	for j := uint32(0); j < node.NamedChildCount(); j++ {
		child := node.NamedChild(int(j))
		if child.Type() == "class_body" {
			body = child
			continue
		}
		v.scan(declaration, child, true)
	}
	if body != nil {
		v.visitAnonymous(declaration, body, true)
	}
}

func (v *visitor) visitAnonymous(enclosing *Declaration, body *sitter.Node, static bool) {
	anonymous := v.declare(&Declaration{
		Name:     v.localName(enclosing.Name, ""),
		Outer:    enclosing.Name,
		Kind:     innerclass.Anonymous,
		IsStatic: static,
		Depth:    enclosing.Depth + 1,
	})
	v.visitBody(anonymous, body)
}

// scan looks for local and anonymous types inside code; static marks a context without an
// enclosing instance
func (v *visitor) scan(enclosing *Declaration, node *sitter.Node, static bool) {
	for j := uint32(0); j < node.NamedChildCount(); j++ {
		child := node.NamedChild(int(j))
		switch {
		case isTypeDeclaration(child):
			name := v.simpleName(child)
			if name == "" {
				continue
			}
			local := v.declare(&Declaration{
				Name:       v.localName(enclosing.Name, name),
				Outer:      enclosing.Name,
				SimpleName: name,
				Kind:       innerclass.Local,
				Access:     parseModifiers(child) | typeDeclarationKinds[child.Type()],
				IsStatic:   static || implicitlyStatic(child.Type()),
				Depth:      enclosing.Depth + 1,
			})
			v.visitType(local, child)
		case child.Type() == "object_creation_expression":
			var body *sitter.Node
			for k := uint32(0); k < child.NamedChildCount(); k++ {
				part := child.NamedChild(int(k))
				if part.Type() == "class_body" {
					body = part
					continue
				}
				v.scan(enclosing, part, static)
			}
			if body != nil {
				v.visitAnonymous(enclosing, body, static)
			}
		default:
			v.scan(enclosing, child, static)
		}
	}
}
