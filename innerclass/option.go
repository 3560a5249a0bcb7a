package innerclass

// Default naming conventions of javac
const (
	DefaultSeparator  = '$'
	DefaultOuterField = "this$0"
)

type Option func(*Builder)

// WithSeparator sets the nesting separator used in binary names
func WithSeparator(separator rune) Option {
	return func(b *Builder) {
		b.separator = separator
	}
}

// WithOuterField sets the synthetic outer instance field name
func WithOuterField(name string) Option {
	return func(b *Builder) {
		b.outerField = name
	}
}
