package hash

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/errors"
)

// State is a hasher lifecycle state.
type State uint8

const (
	Created State = iota
	Accumulating
	Finalized
	Faulted
	Disposed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Accumulating:
		return "accumulating"
	case Finalized:
		return "finalized"
	case Faulted:
		return "faulted"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Hasher drives a Provider through the Created, Accumulating and
// Finalized states. Finalize resets the provider in the same step, so a
// hasher is immediately reusable. A Hasher is not safe for concurrent use.
type Hasher struct {
	p         Provider
	algorithm string
	state     State
	// inflight is closed when the last context-bound provider call returns.
	inflight chan struct{}
}

// New creates a hasher for a registered algorithm.
func New(algorithm string) (*Hasher, error) {
	p, err := CreateProvider(algorithm)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(algorithm, p), nil
}

// NewWithProvider wraps an existing provider.
func NewWithProvider(algorithm string, p Provider) *Hasher {
	return &Hasher{p: p, algorithm: algorithm}
}

// Algorithm returns the algorithm name the hasher was created with.
func (h *Hasher) Algorithm() string { return h.algorithm }

// State returns the current state.
func (h *Hasher) State() State { return h.state }

// Size returns the digest length in bytes.
func (h *Hasher) Size() int { return h.p.Size() }

func (h *Hasher) usable() error {
	switch h.state {
	case Disposed:
		return errDisposed()
	case Faulted:
		return errors.New(errors.PhaseHash, errors.KindStateUndefined).
			Detail("%s hasher faulted by a cancelled operation; Reset before reuse", h.algorithm).
			Build()
	}
	return nil
}

// Append feeds data to the provider.
func (h *Hasher) Append(data []byte) error {
	if err := h.usable(); err != nil {
		return err
	}
	if err := h.p.Append(data); err != nil {
		return errors.Wrap(errors.PhaseHash, errors.KindInvalidInput, err, "append")
	}
	h.state = Accumulating
	return nil
}

// Finalize returns the digest and resets the provider.
func (h *Hasher) Finalize() ([]byte, error) {
	if err := h.usable(); err != nil {
		return nil, err
	}
	sum, err := h.p.FinalizeAndReset()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHash, errors.KindInvalidInput, err, "finalize")
	}
	h.state = Finalized
	return sum, nil
}

// FinalizeInto writes the digest to dst and returns its length. A dst
// shorter than Size fails with destination_too_small and leaves the
// accumulated data untouched.
func (h *Hasher) FinalizeInto(dst []byte) (int, error) {
	if err := h.usable(); err != nil {
		return 0, err
	}
	if need := h.p.Size(); len(dst) < need {
		return 0, errors.DestinationTooSmall(len(dst), need)
	}
	sum, err := h.Finalize()
	if err != nil {
		return 0, err
	}
	return copy(dst, sum), nil
}

// Reset discards accumulated data and clears a fault. It waits for an
// abandoned context-bound call to return first.
func (h *Hasher) Reset() error {
	if h.state == Disposed {
		return errDisposed()
	}
	h.wait()
	h.p.Reset()
	h.state = Created
	return nil
}

// Dispose releases the provider. It is safe to call more than once.
func (h *Hasher) Dispose() {
	if h.state == Disposed {
		return
	}
	h.wait()
	h.p.Dispose()
	h.state = Disposed
}

func (h *Hasher) wait() {
	if h.inflight != nil {
		<-h.inflight
		h.inflight = nil
	}
}

// AppendContext is Append bounded by ctx. Cancellation before the provider
// call starts returns a cancelled error and changes nothing. Cancellation
// while the call is in flight faults the hasher: the accumulated state is
// undefined and the error is state_undefined.
func (h *Hasher) AppendContext(ctx context.Context, data []byte) error {
	_, err := h.run(ctx, "append", func() ([]byte, error) {
		return nil, h.p.Append(data)
	})
	if err != nil {
		return err
	}
	h.state = Accumulating
	return nil
}

// FinalizeContext is Finalize bounded by ctx, with the cancellation rules
// of AppendContext.
func (h *Hasher) FinalizeContext(ctx context.Context) ([]byte, error) {
	sum, err := h.run(ctx, "finalize", h.p.FinalizeAndReset)
	if err != nil {
		return nil, err
	}
	h.state = Finalized
	return sum, nil
}

func (h *Hasher) run(ctx context.Context, op string, call func() ([]byte, error)) ([]byte, error) {
	if err := h.usable(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.PhaseHash, errors.KindCancelled).
			Cause(err).
			Detail("%s cancelled before start", op).
			Build()
	}

	type result struct {
		sum []byte
		err error
	}
	done := make(chan struct{})
	var res result
	go func() {
		defer close(done)
		res.sum, res.err = call()
	}()

	select {
	case <-done:
		if res.err != nil {
			return nil, errors.Wrap(errors.PhaseHash, errors.KindInvalidInput, res.err, op)
		}
		return res.sum, nil
	case <-ctx.Done():
		h.inflight = done
		h.state = Faulted
		Logger().Warn("hash operation cancelled in flight",
			zap.String("algorithm", h.algorithm),
			zap.String("op", op),
			zap.Error(ctx.Err()))
		return nil, errors.New(errors.PhaseHash, errors.KindStateUndefined).
			Cause(ctx.Err()).
			Detail("%s cancelled in flight; provider state is undefined", op).
			Build()
	}
}
