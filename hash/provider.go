package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	stdhash "hash"
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/wippyai/jsinterop/errors"
)

// Provider computes a digest incrementally. FinalizeAndReset returns the
// digest of everything appended since the last reset and reinitializes the
// provider as a single operation. Providers are not safe for concurrent use.
type Provider interface {
	Append(data []byte) error
	FinalizeAndReset() ([]byte, error)
	Reset()
	Size() int
	Dispose()
}

// Factory creates a fresh provider.
type Factory func() (Provider, error)

var algorithms = struct {
	m  map[string]Factory
	mu sync.RWMutex
}{
	m: make(map[string]Factory),
}

func init() {
	builtins := map[string]func() (stdhash.Hash, error){
		"md5":         plain(md5.New),
		"sha1":        plain(sha1.New),
		"sha256":      plain(sha256.New),
		"sha384":      plain(sha512.New384),
		"sha512":      plain(sha512.New),
		"sha3-256":    plain(sha3.New256),
		"sha3-384":    plain(sha3.New384),
		"sha3-512":    plain(sha3.New512),
		"blake2b-256": func() (stdhash.Hash, error) { return blake2b.New256(nil) },
		"blake2b-512": func() (stdhash.Hash, error) { return blake2b.New512(nil) },
		"blake3":      func() (stdhash.Hash, error) { return blake3.New(), nil },
	}
	for name, mk := range builtins {
		if err := RegisterAlgorithm(name, FromHash(mk)); err != nil {
			panic(err)
		}
	}
}

func plain[H stdhash.Hash](mk func() H) func() (stdhash.Hash, error) {
	return func() (stdhash.Hash, error) { return mk(), nil }
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterAlgorithm makes an algorithm available to CreateProvider. Names
// are case-insensitive.
func RegisterAlgorithm(name string, f Factory) error {
	key := normalize(name)
	if key == "" {
		return errors.Registration("hash algorithm", name, errors.InvalidInput(errors.PhaseRegister, "name cannot be empty"))
	}
	if f == nil {
		return errors.Registration("hash algorithm", name, errors.InvalidInput(errors.PhaseRegister, "factory is nil"))
	}

	algorithms.mu.Lock()
	defer algorithms.mu.Unlock()
	if _, dup := algorithms.m[key]; dup {
		return errors.Registration("hash algorithm", name, errors.InvalidInput(errors.PhaseRegister, "already registered"))
	}
	algorithms.m[key] = f
	return nil
}

// CreateProvider returns a new provider for algorithm.
func CreateProvider(algorithm string) (Provider, error) {
	algorithms.mu.RLock()
	f, ok := algorithms.m[normalize(algorithm)]
	algorithms.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseHash, "hash algorithm", algorithm)
	}
	p, err := f()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHash, errors.KindInvalidInput, err, "create provider "+algorithm)
	}
	return p, nil
}

// Algorithms lists the registered algorithm names in sorted order.
func Algorithms() []string {
	algorithms.mu.RLock()
	names := make([]string, 0, len(algorithms.m))
	for name := range algorithms.m {
		names = append(names, name)
	}
	algorithms.mu.RUnlock()
	slices.Sort(names)
	return names
}

// FromHash adapts a standard library hash constructor to a Factory.
func FromHash(mk func() (stdhash.Hash, error)) Factory {
	return func() (Provider, error) {
		h, err := mk()
		if err != nil {
			return nil, err
		}
		return &hashProvider{h: h, size: h.Size()}, nil
	}
}

// hashProvider backs Provider with a hash.Hash.
type hashProvider struct {
	h    stdhash.Hash
	size int
}

func (p *hashProvider) Append(data []byte) error {
	if p.h == nil {
		return errDisposed()
	}
	_, err := p.h.Write(data)
	return err
}

func (p *hashProvider) FinalizeAndReset() ([]byte, error) {
	if p.h == nil {
		return nil, errDisposed()
	}
	sum := p.h.Sum(nil)
	p.h.Reset()
	return sum, nil
}

func (p *hashProvider) Reset() {
	if p.h != nil {
		p.h.Reset()
	}
}

func (p *hashProvider) Size() int { return p.size }

func (p *hashProvider) Dispose() { p.h = nil }

func errDisposed() error {
	return errors.New(errors.PhaseHash, errors.KindDisposed).Detail("hasher disposed").Build()
}
