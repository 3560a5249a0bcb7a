package classfile

// Access flags shared by classes, fields, methods and InnerClasses entries (JVMS 4.1, 4.5, 4.7.6)
const (
	AccPublic     uint16 = 0x0001
	AccPrivate    uint16 = 0x0002
	AccProtected  uint16 = 0x0004
	AccStatic     uint16 = 0x0008
	AccFinal      uint16 = 0x0010
	AccSuper      uint16 = 0x0020 // class only, invalid in inner_class_access_flags
	AccVolatile   uint16 = 0x0040
	AccTransient  uint16 = 0x0080
	AccInterface  uint16 = 0x0200
	AccAbstract   uint16 = 0x0400
	AccSynthetic  uint16 = 0x1000
	AccAnnotation uint16 = 0x2000
	AccEnum       uint16 = 0x4000
	AccModule     uint16 = 0x8000
)

// Magic is the class file signature
const Magic uint32 = 0xCAFEBABE

// InnerClassesAttribute is the attribute name holding nesting records
const InnerClassesAttribute = "InnerClasses"
