package hash

import "context"

// Sum returns the digest of data.
func Sum(algorithm string, data []byte) ([]byte, error) {
	h, err := New(algorithm)
	if err != nil {
		return nil, err
	}
	defer h.Dispose()
	if err := h.Append(data); err != nil {
		return nil, err
	}
	return h.Finalize()
}

// TrySum writes the digest of data to dst and returns its length.
func TrySum(algorithm string, data, dst []byte) (int, error) {
	h, err := New(algorithm)
	if err != nil {
		return 0, err
	}
	defer h.Dispose()
	if err := h.Append(data); err != nil {
		return 0, err
	}
	return h.FinalizeInto(dst)
}

// SumContext is Sum bounded by ctx.
func SumContext(ctx context.Context, algorithm string, data []byte) ([]byte, error) {
	h, err := New(algorithm)
	if err != nil {
		return nil, err
	}
	defer h.Dispose()
	if err := h.AppendContext(ctx, data); err != nil {
		return nil, err
	}
	return h.FinalizeContext(ctx)
}
