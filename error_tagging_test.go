package threads

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWorkerTaggedError_Extractors(t *testing.T) {
	id := uuid.New()
	base := fmt.Errorf("%w: %w", ErrWorkerFailed, errors.New("disk full"))
	err := newWorkerTaggedError(base, id, 7)

	gotID, ok := ExtractWorkerID(err)
	require.True(t, ok)
	require.Equal(t, id, gotID)

	seq, ok := ExtractWorkerSeq(err)
	require.True(t, ok)
	require.Equal(t, uint64(7), seq)

	require.ErrorIs(t, err, ErrWorkerFailed)
	require.Equal(t, base.Error(), err.Error())

	_, ok = ExtractPanic(err)
	require.False(t, ok)
}

func TestWorkerTaggedError_NilStaysNil(t *testing.T) {
	require.NoError(t, newWorkerTaggedError(nil, uuid.New(), 1))
}

func TestExtractors_UntaggedError(t *testing.T) {
	err := errors.New("plain")

	id, ok := ExtractWorkerID(err)
	require.False(t, ok)
	require.Equal(t, uuid.Nil, id)

	seq, ok := ExtractWorkerSeq(err)
	require.False(t, ok)
	require.Zero(t, seq)
}

func TestWorkerTaggedError_Format(t *testing.T) {
	id := uuid.MustParse("6f1c2f4e-3d43-4b8a-9c55-0f1e2d3c4b5a")
	err := newWorkerTaggedError(errors.New("boom"), id, 3)

	require.Equal(t, "boom", fmt.Sprintf("%v", err))
	require.Equal(t, "boom", fmt.Sprintf("%s", err))
	require.Equal(t, `"boom"`, fmt.Sprintf("%q", err))
	require.Equal(t, "worker(seq=3,id=6f1c2f4e-3d43-4b8a-9c55-0f1e2d3c4b5a): boom", fmt.Sprintf("%+v", err))
}

func TestExtractPanic_ThroughTagging(t *testing.T) {
	err := newWorkerTaggedError(&panicError{value: 42}, uuid.New(), 0)

	v, ok := ExtractPanic(err)
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.ErrorIs(t, err, ErrWorkerFailed)
}
