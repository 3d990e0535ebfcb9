// Package ext provides optional operations that go beyond the standard
// library of pkg/functions.
//
// The operations live in sub-packages grouped by category:
//   - extstring  – starts with, ends with, index of, camel case, words, …
//   - extnumeric – pi, trunc, clamp, atan2, sum, median, percentile, …
//   - extarray   – take, skip, includes, distinct, flatten, chunk, range
//   - extcrypto  – uuid, hash, hmac
//
// # Integration – all extensions at once
//
//	r, err := ext.Registry()
//	expr, err := parser.Compile(doc, parser.WithRegistry(r))
//
// # Integration – by category
//
//	r, err := functions.Extend(extstring.All()...)
//
// # Integration – single operation from a sub-package
//
//	r, err := functions.Extend(extnumeric.Median(), extcrypto.UUID())
package ext

import (
	"sync"

	"github.com/sandrolain/ddexpr/pkg/ext/extarray"
	"github.com/sandrolain/ddexpr/pkg/ext/extcrypto"
	"github.com/sandrolain/ddexpr/pkg/ext/extnumeric"
	"github.com/sandrolain/ddexpr/pkg/ext/extstring"
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
)

// All returns every extension operation.
func All() []functions.Entry {
	var all []functions.Entry
	all = append(all, extstring.All()...)
	all = append(all, extnumeric.All()...)
	all = append(all, extarray.All()...)
	all = append(all, extcrypto.All()...)
	return all
}

var (
	registryOnce sync.Once
	registry     *provider.Registry
	registryErr  error
)

// Registry returns the standard registry extended with every extension
// operation. It is built once and frozen.
func Registry() (*provider.Registry, error) {
	registryOnce.Do(func() {
		registry, registryErr = functions.Extend(All()...)
	})
	return registry, registryErr
}
