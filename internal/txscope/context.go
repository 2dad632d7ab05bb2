package txscope

import "context"

type ctxKey struct{}

// WithScope attaches s to ctx. A unit of work calls it once per transaction.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope attached to ctx. Outside a transaction there
// is none, and a fresh scope is returned so flags set there are dropped.
func FromContext(ctx context.Context) *Scope {
	if s, ok := ctx.Value(ctxKey{}).(*Scope); ok && s != nil {
		return s
	}
	return New()
}
