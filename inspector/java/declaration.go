package java

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
	"github.com/viant/innerfix/innerclass"
)

// Declaration represents a type declared in Java source, named the way javac names its class file
type Declaration struct {
	Name       string          // binary internal name, e.g. com/acme/Outer$1Local
	Outer      string          // binary name of the lexically enclosing type, "" for top level
	SimpleName string          // declared name, "" for anonymous types
	Kind       innerclass.Kind // meaningful only when Outer is set
	Access     uint16          // declared modifiers including private, protected and static
	IsStatic   bool            // declared or implicitly static; no outer instance
	Depth      int             // number of enclosing types
	Fields     []*inheritance.FieldInfo
}

// IsTopLevel reports whether the type is not nested
func (d *Declaration) IsTopLevel() bool {
	return d.Outer == ""
}

// OuterField returns the synthetic outer instance field javac emits, "" when none
func (d *Declaration) OuterField() string {
	if d.IsTopLevel() || d.IsStatic {
		return ""
	}
	return "this$" + strconv.Itoa(d.Depth-1)
}

// TypeInfo returns the compiled view of the declaration: class access flags as javac writes
// them and declared fields plus the synthetic outer instance field
func (d *Declaration) TypeInfo() *inheritance.TypeInfo {
	access := d.Access &^ (classfile.AccPrivate | classfile.AccStatic)
	if access&classfile.AccProtected != 0 {
		access = access&^classfile.AccProtected | classfile.AccPublic
	}
	if access&classfile.AccInterface == 0 {
		access |= classfile.AccSuper
	}
	info := &inheritance.TypeInfo{Name: d.Name, Access: access}
	for _, field := range d.Fields {
		info.AddField(field)
	}
	if outerField := d.OuterField(); outerField != "" {
		info.AddField(&inheritance.FieldInfo{
			Name:       outerField,
			Descriptor: "L" + d.Outer + ";",
			Access:     classfile.AccFinal | classfile.AccSynthetic,
		})
	}
	return info
}

// parsePackageDeclaration extracts the package name from a Java source file
func parsePackageDeclaration(node *sitter.Node, source []byte) string {
	if node.Type() != "package_declaration" {
		return ""
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(source)
		}
	}
	return ""
}

var modifierFlags = map[string]uint16{
	"public":    classfile.AccPublic,
	"private":   classfile.AccPrivate,
	"protected": classfile.AccProtected,
	"static":    classfile.AccStatic,
	"final":     classfile.AccFinal,
	"abstract":  classfile.AccAbstract,
	"volatile":  classfile.AccVolatile,
	"transient": classfile.AccTransient,
}

// parseModifiers returns access flags of the modifiers child of a declaration
func parseModifiers(node *sitter.Node) uint16 {
	var access uint16
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		if child.Type() != "modifiers" {
			continue
		}
		for j := uint32(0); j < child.ChildCount(); j++ {
			modifier := child.Child(int(j))
			access |= modifierFlags[modifier.Type()]
		}
	}
	return access
}

// typeDeclarationKinds lists declarations producing a class file, with implicit flags
var typeDeclarationKinds = map[string]uint16{
	"class_declaration":           0,
	"interface_declaration":       classfile.AccInterface | classfile.AccAbstract,
	"annotation_type_declaration": classfile.AccInterface | classfile.AccAbstract | classfile.AccAnnotation,
	"enum_declaration":            classfile.AccEnum,
	"record_declaration":          classfile.AccFinal,
}

func isTypeDeclaration(node *sitter.Node) bool {
	_, ok := typeDeclarationKinds[node.Type()]
	return ok
}

// implicitlyStatic reports whether a nested declaration of kind never has an outer instance
func implicitlyStatic(nodeType string) bool {
	return nodeType != "class_declaration"
}

// parseFieldDeclaration extracts declared variable names of a field or interface constant
func parseFieldDeclaration(node *sitter.Node, source []byte, inInterface bool) []*inheritance.FieldInfo {
	access := parseModifiers(node)
	if inInterface || node.Type() == "constant_declaration" {
		access |= classfile.AccPublic | classfile.AccStatic | classfile.AccFinal
	}
	descriptor := ""
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		descriptor = strings.TrimSpace(typeNode.Content(source))
	}
	var fields []*inheritance.FieldInfo
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fields = append(fields, &inheritance.FieldInfo{
			Name:       nameNode.Content(source),
			Descriptor: descriptor,
			Access:     access,
		})
	}
	return fields
}
