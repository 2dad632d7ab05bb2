package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// optionalInt is an int flag that remembers whether it was given, so zero
// can be told apart from "not set".
type optionalInt struct {
	value *int
}

var _ pflag.Value = (*optionalInt)(nil)

func (o *optionalInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	o.value = &n
	return nil
}

func (o *optionalInt) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.Itoa(*o.value)
}

func (o *optionalInt) Type() string { return "int" }

// Ptr returns the parsed value, or nil if the flag was not given.
func (o *optionalInt) Ptr() *int { return o.value }

// optionalInt64 is optionalInt for document IDs.
type optionalInt64 struct {
	value *int64
}

var _ pflag.Value = (*optionalInt64)(nil)

func (o *optionalInt64) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	o.value = &n
	return nil
}

func (o *optionalInt64) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.FormatInt(*o.value, 10)
}

func (o *optionalInt64) Type() string { return "int64" }

func (o *optionalInt64) Ptr() *int64 { return o.value }
