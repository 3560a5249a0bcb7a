package classfile

import (
	"encoding/binary"
	"fmt"
)

// Constant pool tags (JVMS 4.4)
const (
	TagUtf8               uint8 = 1
	TagInteger            uint8 = 3
	TagFloat              uint8 = 4
	TagLong               uint8 = 5
	TagDouble             uint8 = 6
	TagClass              uint8 = 7
	TagString             uint8 = 8
	TagFieldref           uint8 = 9
	TagMethodref          uint8 = 10
	TagInterfaceMethodref uint8 = 11
	TagNameAndType        uint8 = 12
	TagMethodHandle       uint8 = 15
	TagMethodType         uint8 = 16
	TagDynamic            uint8 = 17
	TagInvokeDynamic      uint8 = 18
	TagModule             uint8 = 19
	TagPackage            uint8 = 20
)

// Constant represents a constant pool entry. Utf8 entries keep their text, reference entries
// keep up to two indexes, numeric entries keep their raw big-endian payload.
type Constant struct {
	Tag   uint8
	Text  string
	Index uint16
	Ref   uint16
	Kind  uint8 // reference kind of a MethodHandle
	Raw   []byte
}

// wide reports whether the entry occupies two pool slots
func (c *Constant) wide() bool {
	return c.Tag == TagLong || c.Tag == TagDouble
}

// ConstantPool is a 1-based constant pool, slot 0 and the slot after a wide entry are nil
type ConstantPool struct {
	entries []*Constant
	utf8    map[string]uint16
	classes map[uint16]uint16
}

// Len returns constant_pool_count, i.e. the number of slots plus one
func (p *ConstantPool) Len() int {
	return len(p.entries)
}

// Get returns the entry at index or nil
func (p *ConstantPool) Get(index uint16) *Constant {
	if int(index) >= len(p.entries) {
		return nil
	}
	return p.entries[index]
}

// Utf8 returns the text of a Utf8 entry
func (p *ConstantPool) Utf8(index uint16) (string, error) {
	c := p.Get(index)
	if c == nil || c.Tag != TagUtf8 {
		return "", fmt.Errorf("%w: constant #%d is not Utf8", ErrMalformed, index)
	}
	return c.Text, nil
}

// ClassName resolves a Class entry to its internal name; index 0 resolves to ""
func (p *ConstantPool) ClassName(index uint16) (string, error) {
	if index == 0 {
		return "", nil
	}
	c := p.Get(index)
	if c == nil || c.Tag != TagClass {
		return "", fmt.Errorf("%w: constant #%d is not Class", ErrMalformed, index)
	}
	return p.Utf8(c.Index)
}

// OptionalUtf8 resolves index 0 to ""
func (p *ConstantPool) OptionalUtf8(index uint16) (string, error) {
	if index == 0 {
		return "", nil
	}
	return p.Utf8(index)
}

// AddUtf8 returns the index of a Utf8 entry with text, appending one when missing
func (p *ConstantPool) AddUtf8(text string) (uint16, error) {
	if index, ok := p.utf8[text]; ok {
		return index, nil
	}
	index, err := p.add(&Constant{Tag: TagUtf8, Text: text})
	if err != nil {
		return 0, err
	}
	p.utf8[text] = index
	return index, nil
}

// AddClass returns the index of a Class entry naming name, appending one when missing
func (p *ConstantPool) AddClass(name string) (uint16, error) {
	nameIndex, err := p.AddUtf8(name)
	if err != nil {
		return 0, err
	}
	if index, ok := p.classes[nameIndex]; ok {
		return index, nil
	}
	index, err := p.add(&Constant{Tag: TagClass, Index: nameIndex})
	if err != nil {
		return 0, err
	}
	p.classes[nameIndex] = index
	return index, nil
}

func (p *ConstantPool) add(c *Constant) (uint16, error) {
	if len(p.entries) >= 0xFFFF {
		return 0, fmt.Errorf("constant pool overflow")
	}
	p.entries = append(p.entries, c)
	return uint16(len(p.entries) - 1), nil
}

func (p *ConstantPool) indexEntries() {
	p.utf8 = make(map[string]uint16)
	p.classes = make(map[uint16]uint16)
	for i, c := range p.entries {
		if c == nil {
			continue
		}
		switch c.Tag {
		case TagUtf8:
			if _, ok := p.utf8[c.Text]; !ok {
				p.utf8[c.Text] = uint16(i)
			}
		case TagClass:
			if _, ok := p.classes[c.Index]; !ok {
				p.classes[c.Index] = uint16(i)
			}
		}
	}
}

func decodeConstantPool(r *reader) (*ConstantPool, error) {
	count := r.u2()
	pool := &ConstantPool{entries: make([]*Constant, 1, int(count)+8)}
	for i := 1; i < int(count); i++ {
		tag := r.u1()
		c := &Constant{Tag: tag}
		switch tag {
		case TagUtf8:
			size := r.u2()
			c.Text = string(r.bytes(int(size)))
		case TagInteger, TagFloat:
			c.Raw = r.bytes(4)
		case TagLong, TagDouble:
			c.Raw = r.bytes(8)
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			c.Index = r.u2()
		case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
			c.Index = r.u2()
			c.Ref = r.u2()
		case TagMethodHandle:
			c.Kind = r.u1()
			c.Index = r.u2()
		default:
			return nil, fmt.Errorf("%w: unknown constant tag %d at #%d", ErrMalformed, tag, i)
		}
		if r.err != nil {
			return nil, r.err
		}
		pool.entries = append(pool.entries, c)
		if c.wide() {
			pool.entries = append(pool.entries, nil)
			i++
		}
	}
	if len(pool.entries) != int(count) && count != 0 {
		return nil, fmt.Errorf("%w: constant pool size mismatch", ErrMalformed)
	}
	pool.indexEntries()
	return pool, nil
}

func (p *ConstantPool) encode(w *writer) {
	w.u2(uint16(len(p.entries)))
	for _, c := range p.entries {
		if c == nil {
			continue
		}
		w.u1(c.Tag)
		switch c.Tag {
		case TagUtf8:
			w.u2(uint16(len(c.Text)))
			w.buf = append(w.buf, c.Text...)
		case TagInteger, TagFloat, TagLong, TagDouble:
			w.buf = append(w.buf, c.Raw...)
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			w.u2(c.Index)
		case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
			w.u2(c.Index)
			w.u2(c.Ref)
		case TagMethodHandle:
			w.u1(c.Kind)
			w.u2(c.Index)
		}
	}
}

// reader is a sticky-error big-endian cursor
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: unexpected end of data at offset %d", ErrMalformed, r.pos)
		return false
	}
	return true
}

func (r *reader) u1() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := make([]byte, n)
	copy(v, r.data[r.pos:r.pos+n])
	r.pos += n
	return v
}

type writer struct {
	buf []byte
}

func (w *writer) u1(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u2(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *writer) u4(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}
