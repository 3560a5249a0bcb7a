package classfile

import (
	"errors"
	"fmt"
)

// ErrMalformed reports a class file that cannot be decoded
var ErrMalformed = errors.New("malformed class file")

// Attribute represents a raw attribute; Info is kept undecoded
type Attribute struct {
	NameIndex uint16
	Info      []byte
}

// Member represents a field or a method
type Member struct {
	Access          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*Attribute
}

// Class represents a decoded class file
type Class struct {
	Minor      uint16
	Major      uint16
	Pool       *ConstantPool
	Access     uint16
	ThisClass  uint16
	SuperClass uint16
	Interfaces []uint16
	Fields     []*Member
	Methods    []*Member
	Attributes []*Attribute
}

// Decode parses class file bytes
func Decode(data []byte) (*Class, error) {
	r := &reader{data: data}
	if magic := r.u4(); magic != Magic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: bad magic %#x", ErrMalformed, magic)
	}
	class := &Class{Minor: r.u2(), Major: r.u2()}
	pool, err := decodeConstantPool(r)
	if err != nil {
		return nil, err
	}
	class.Pool = pool
	class.Access = r.u2()
	class.ThisClass = r.u2()
	class.SuperClass = r.u2()
	count := r.u2()
	for i := 0; i < int(count) && r.err == nil; i++ {
		class.Interfaces = append(class.Interfaces, r.u2())
	}
	class.Fields = decodeMembers(r)
	class.Methods = decodeMembers(r)
	class.Attributes = decodeAttributes(r)
	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(data)-r.pos)
	}
	return class, nil
}

func decodeMembers(r *reader) []*Member {
	count := r.u2()
	var members []*Member
	for i := 0; i < int(count) && r.err == nil; i++ {
		members = append(members, &Member{
			Access:          r.u2(),
			NameIndex:       r.u2(),
			DescriptorIndex: r.u2(),
			Attributes:      decodeAttributes(r),
		})
	}
	return members
}

func decodeAttributes(r *reader) []*Attribute {
	count := r.u2()
	var attributes []*Attribute
	for i := 0; i < int(count) && r.err == nil; i++ {
		nameIndex := r.u2()
		size := r.u4()
		attributes = append(attributes, &Attribute{NameIndex: nameIndex, Info: r.bytes(int(size))})
	}
	return attributes
}

// Encode serializes the class back to bytes
func (c *Class) Encode() []byte {
	w := &writer{buf: make([]byte, 0, 1024)}
	w.u4(Magic)
	w.u2(c.Minor)
	w.u2(c.Major)
	c.Pool.encode(w)
	w.u2(c.Access)
	w.u2(c.ThisClass)
	w.u2(c.SuperClass)
	w.u2(uint16(len(c.Interfaces)))
	for _, index := range c.Interfaces {
		w.u2(index)
	}
	encodeMembers(w, c.Fields)
	encodeMembers(w, c.Methods)
	encodeAttributes(w, c.Attributes)
	return w.buf
}

func encodeMembers(w *writer, members []*Member) {
	w.u2(uint16(len(members)))
	for _, m := range members {
		w.u2(m.Access)
		w.u2(m.NameIndex)
		w.u2(m.DescriptorIndex)
		encodeAttributes(w, m.Attributes)
	}
}

func encodeAttributes(w *writer, attributes []*Attribute) {
	w.u2(uint16(len(attributes)))
	for _, a := range attributes {
		w.u2(a.NameIndex)
		w.u4(uint32(len(a.Info)))
		w.buf = append(w.buf, a.Info...)
	}
}

// Name returns the internal name of this class
func (c *Class) Name() (string, error) {
	return c.Pool.ClassName(c.ThisClass)
}

// SuperName returns the internal name of the super class, "" for java/lang/Object and modules
func (c *Class) SuperName() (string, error) {
	return c.Pool.ClassName(c.SuperClass)
}

// InterfaceNames returns internal names of directly implemented interfaces
func (c *Class) InterfaceNames() ([]string, error) {
	var names []string
	for _, index := range c.Interfaces {
		name, err := c.Pool.ClassName(index)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// MemberName returns the name of a field or method
func (c *Class) MemberName(m *Member) (string, error) {
	return c.Pool.Utf8(m.NameIndex)
}

// MemberDescriptor returns the descriptor of a field or method
func (c *Class) MemberDescriptor(m *Member) (string, error) {
	return c.Pool.Utf8(m.DescriptorIndex)
}

// Attribute returns the first class attribute with name
func (c *Class) Attribute(name string) *Attribute {
	for _, a := range c.Attributes {
		if text, err := c.Pool.Utf8(a.NameIndex); err == nil && text == name {
			return a
		}
	}
	return nil
}
