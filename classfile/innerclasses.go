package classfile

import (
	"fmt"
)

// InnerClass represents one InnerClasses attribute entry with resolved names.
// Empty OuterName or SimpleName stand for a zero constant pool index.
type InnerClass struct {
	Name       string
	OuterName  string
	SimpleName string
	Access     uint16
}

// InnerClasses decodes the InnerClasses attribute, nil when absent
func (c *Class) InnerClasses() ([]InnerClass, error) {
	attribute := c.Attribute(InnerClassesAttribute)
	if attribute == nil {
		return nil, nil
	}
	r := &reader{data: attribute.Info}
	count := r.u2()
	result := make([]InnerClass, 0, count)
	for i := 0; i < int(count); i++ {
		inner, outer, simple, access := r.u2(), r.u2(), r.u2(), r.u2()
		if r.err != nil {
			return nil, r.err
		}
		entry := InnerClass{Access: access}
		var err error
		if entry.Name, err = c.Pool.ClassName(inner); err != nil {
			return nil, err
		}
		if entry.OuterName, err = c.Pool.ClassName(outer); err != nil {
			return nil, err
		}
		if entry.SimpleName, err = c.Pool.OptionalUtf8(simple); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(attribute.Info) {
		return nil, fmt.Errorf("%w: %d trailing bytes in %s", ErrMalformed, len(attribute.Info)-r.pos, InnerClassesAttribute)
	}
	return result, nil
}

// SetInnerClasses replaces (or adds) the InnerClasses attribute with entries
func (c *Class) SetInnerClasses(entries []InnerClass) error {
	w := &writer{}
	w.u2(uint16(len(entries)))
	for _, entry := range entries {
		if entry.Name == "" {
			return fmt.Errorf("inner class entry without name")
		}
		inner, err := c.Pool.AddClass(entry.Name)
		if err != nil {
			return err
		}
		var outer, simple uint16
		if entry.OuterName != "" {
			if outer, err = c.Pool.AddClass(entry.OuterName); err != nil {
				return err
			}
		}
		if entry.SimpleName != "" {
			if simple, err = c.Pool.AddUtf8(entry.SimpleName); err != nil {
				return err
			}
		}
		w.u2(inner)
		w.u2(outer)
		w.u2(simple)
		w.u2(entry.Access)
	}
	if attribute := c.Attribute(InnerClassesAttribute); attribute != nil {
		attribute.Info = w.buf
		return nil
	}
	nameIndex, err := c.Pool.AddUtf8(InnerClassesAttribute)
	if err != nil {
		return err
	}
	c.Attributes = append(c.Attributes, &Attribute{NameIndex: nameIndex, Info: w.buf})
	return nil
}
