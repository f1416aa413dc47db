package modal

// Variant selects the border and title color of a modal.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

const (
	DefaultWidth  = 50
	MinModalWidth = 30
	ModalPadding  = 6 // border(2) + horizontal padding(4)
)

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the preferred width. It is clamped to the screen on render.
func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

// WithVariant sets the color variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints toggles the keyboard hint line.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned by Enter when the focused
// section does not produce one.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithCloseOnBackdropClick controls whether clicking outside the box cancels.
func WithCloseOnBackdropClick(v bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = v }
}
