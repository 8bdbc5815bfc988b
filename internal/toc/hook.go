package toc

type hookMode uint8

const (
	hookDefault hookMode = iota
	hookDisabled
	hookCustom
)

// Hook selects between the built-in behaviour, no behaviour at all, or a
// caller supplied function. The zero value is the built-in behaviour.
type Hook[F any] struct {
	mode hookMode
	fn   F
}

// Disabled turns a step off.
func Disabled[F any]() Hook[F] {
	return Hook[F]{mode: hookDisabled}
}

// Custom replaces a step with fn.
func Custom[F any](fn F) Hook[F] {
	return Hook[F]{mode: hookCustom, fn: fn}
}

func (h Hook[F]) IsDisabled() bool { return h.mode == hookDisabled }

// Func returns the custom function and true when one was supplied.
func (h Hook[F]) Func() (F, bool) {
	return h.fn, h.mode == hookCustom
}
