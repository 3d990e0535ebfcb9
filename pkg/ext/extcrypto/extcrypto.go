// Package extcrypto provides identifier and hashing operations.
//
// MD5 and SHA-1 are offered for fingerprinting only.
package extcrypto

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // fingerprinting only
	"crypto/sha1" //nolint:gosec // fingerprinting only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// All returns all identifier and hashing operations.
func All() []functions.Entry {
	return []functions.Entry{
		UUID(),
		Hash(),
		HMAC(),
	}
}

// randReader draws bytes from the context random source, so contexts seeded
// with WithRand produce reproducible identifiers.
type randReader struct{ ctx *provider.Context }

func (r randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.ctx.Intn(256))
	}
	return len(p), nil
}

// UUID returns the definition for "uuid", a random version 4 UUID.
func UUID() functions.NullaryDef {
	return functions.NullaryDef{
		Name:       "uuid",
		ReturnType: types.String,
		Fn: func(ctx *provider.Context) (types.Value, error) {
			id, err := uuid.NewRandomFromReader(randReader{ctx})
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		},
	}
}

var hashes = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
	"xxhash": func() hash.Hash { return xxhash.New() },
}

func algorithm(name string) (func() hash.Hash, error) {
	h, ok := hashes[strings.ToLower(name)]
	if !ok {
		return nil, types.Errorf(types.ErrDomain, "unsupported hash algorithm %q", name)
	}
	return h, nil
}

// Hash returns the definition for "hash" (value, algorithm): the hex digest of
// value. Algorithms are md5, sha1, sha256, sha384, sha512 and xxhash.
func Hash() functions.BinaryDef {
	return functions.BinaryDef{
		Name: "hash",
		Overloads: []*provider.Binary{
			provider.NewBinary(types.String, types.String, types.String, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				newHash, err := algorithm(r.(string))
				if err != nil {
					return nil, err
				}
				h := newHash()
				h.Write([]byte(l.(string)))
				return hex.EncodeToString(h.Sum(nil)), nil
			}),
		},
	}
}

// HMAC returns the definition for "hmac" (value, key, algorithm).
func HMAC() functions.TernaryDef {
	return functions.TernaryDef{
		Name: "hmac",
		Overloads: []*provider.Ternary{
			provider.NewTernary(types.String, types.String, types.String, types.String, func(_ *provider.Context, v, key, alg types.Value) (types.Value, error) {
				newHash, err := algorithm(alg.(string))
				if err != nil {
					return nil, err
				}
				mac := hmac.New(newHash, []byte(key.(string)))
				mac.Write([]byte(v.(string)))
				return hex.EncodeToString(mac.Sum(nil)), nil
			}),
		},
	}
}
