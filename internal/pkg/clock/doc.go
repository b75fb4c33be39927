// Package clock provides a tiny time abstraction.
//
// Token verification and audit timestamps read time through Clocker so tests
// can pin it with Fixed.
package clock
