package classfile

// New creates an empty Java 8 class with the given internal name, super class and access flags
func New(name, superName string, access uint16) (*Class, error) {
	c := &Class{
		Major:  52,
		Pool:   &ConstantPool{entries: make([]*Constant, 1)},
		Access: access,
	}
	c.Pool.indexEntries()
	var err error
	if c.ThisClass, err = c.Pool.AddClass(name); err != nil {
		return nil, err
	}
	if superName != "" {
		if c.SuperClass, err = c.Pool.AddClass(superName); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddField appends a field declaration
func (c *Class) AddField(name, descriptor string, access uint16) error {
	nameIndex, err := c.Pool.AddUtf8(name)
	if err != nil {
		return err
	}
	descriptorIndex, err := c.Pool.AddUtf8(descriptor)
	if err != nil {
		return err
	}
	c.Fields = append(c.Fields, &Member{Access: access, NameIndex: nameIndex, DescriptorIndex: descriptorIndex})
	return nil
}

// AddInterface appends a directly implemented interface
func (c *Class) AddInterface(name string) error {
	index, err := c.Pool.AddClass(name)
	if err != nil {
		return err
	}
	c.Interfaces = append(c.Interfaces, index)
	return nil
}
