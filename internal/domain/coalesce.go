package domain

import "strings"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// CloneInt returns an independent copy of p (nil stays nil).
func CloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CloneString returns an independent copy of p (nil stays nil).
func CloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtrEqual reports whether a and b are both nil or hold the same value.
func IntPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// StringPtrEqual reports whether a and b are both nil or hold the same value.
func StringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// BlankToNil trims s and returns nil when nothing is left.
func BlankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// IntFromPtrWithDefault returns the first non-nil *int value, or the fallback.
func IntFromPtrWithDefault(fallback int, ptrs ...*int) int {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
