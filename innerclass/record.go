package innerclass

import "github.com/viant/innerfix/classfile"

// Record is a reconstructed InnerClasses entry
type Record struct {
	Name       string `yaml:"name"`
	OuterName  string `yaml:"outerName,omitempty"`
	SimpleName string `yaml:"simpleName,omitempty"`
	Access     uint16 `yaml:"access"`
}

// IsStatic reports whether the recovered flags carry ACC_STATIC
func (r Record) IsStatic() bool {
	return r.Access&classfile.AccStatic != 0
}

// Entry converts the record to its class file form
func (r Record) Entry() classfile.InnerClass {
	return classfile.InnerClass{Name: r.Name, OuterName: r.OuterName, SimpleName: r.SimpleName, Access: r.Access}
}

// RecordOf converts a class file entry to a record
func RecordOf(entry classfile.InnerClass) Record {
	return Record{Name: entry.Name, OuterName: entry.OuterName, SimpleName: entry.SimpleName, Access: entry.Access}
}
