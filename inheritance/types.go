package inheritance

import (
	"github.com/viant/innerfix/classfile"
)

// TypeInfo represents a compiled type as seen by the whole-program index
type TypeInfo struct {
	Name       string       // internal name, e.g. com/acme/Outer$Inner
	Access     uint16       // class access flags
	Super      string       // internal name of the super class
	Interfaces []string     // directly implemented interfaces
	Fields     []*FieldInfo // declared fields

	fieldMap map[string]int // Map of fields for quick lookup
}

// FieldInfo represents a declared field
type FieldInfo struct {
	Name       string
	Descriptor string
	Access     uint16
}

// IsStatic reports whether the field is static
func (f *FieldInfo) IsStatic() bool {
	return f.Access&classfile.AccStatic != 0
}

// GetField retrieves a field by name
func (t *TypeInfo) GetField(name string) *FieldInfo {
	if t.fieldMap == nil {
		return nil
	}
	if idx, ok := t.fieldMap[name]; ok && idx < len(t.Fields) {
		return t.Fields[idx]
	}
	return nil
}

// HasInstanceField reports whether a non-static field with name is declared
func (t *TypeInfo) HasInstanceField(name string) bool {
	for _, field := range t.Fields {
		if !field.IsStatic() && field.Name == name {
			return true
		}
	}
	return false
}

// AddField adds a field to the type
func (t *TypeInfo) AddField(field *FieldInfo) {
	if t.fieldMap == nil {
		t.fieldMap = make(map[string]int)
	}
	t.Fields = append(t.Fields, field)
	if _, ok := t.fieldMap[field.Name]; !ok {
		t.fieldMap[field.Name] = len(t.Fields) - 1
	}
}

// FromClass builds a TypeInfo from a decoded class file
func FromClass(class *classfile.Class) (*TypeInfo, error) {
	name, err := class.Name()
	if err != nil {
		return nil, err
	}
	superName, err := class.SuperName()
	if err != nil {
		return nil, err
	}
	interfaces, err := class.InterfaceNames()
	if err != nil {
		return nil, err
	}
	info := &TypeInfo{Name: name, Access: class.Access, Super: superName, Interfaces: interfaces}
	for _, member := range class.Fields {
		fieldName, err := class.MemberName(member)
		if err != nil {
			return nil, err
		}
		descriptor, err := class.MemberDescriptor(member)
		if err != nil {
			return nil, err
		}
		info.AddField(&FieldInfo{Name: fieldName, Descriptor: descriptor, Access: member.Access})
	}
	return info, nil
}
