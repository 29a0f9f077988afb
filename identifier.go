package coroutine

import "strings"

// Identifier names a registered generator method. Equality is structural:
// two Identifiers naming the same (scope, method) pair are interchangeable
// regardless of where they were constructed.
type Identifier struct {
	Scope  string // declaring namespace, e.g. a package path; optional
	Method string // method name, required
}

// NewIdentifier builds an unscoped Identifier from a method name. The
// string is taken as is and not split into scope and method; use In to add
// a scope, or ParseIdentifier for the "scope.method" form.
func NewIdentifier(method string) Identifier {
	return Identifier{Method: method}
}

// In returns a copy of id scoped to the given namespace.
func (id Identifier) In(scope string) Identifier {
	id.Scope = scope
	return id
}

func (id Identifier) String() string {
	if id.Scope == "" {
		return id.Method
	}
	return id.Scope + "." + id.Method
}

// ParseIdentifier parses the "scope.method" form produced by String. A
// string with no "." is treated as an unscoped method name.
func ParseIdentifier(s string) Identifier {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return Identifier{Scope: s[:i], Method: s[i+1:]}
	}
	return Identifier{Method: s}
}
