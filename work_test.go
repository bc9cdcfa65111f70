package threads

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkAdapters_BasicExecution(t *testing.T) {
	type testCase struct {
		name      string
		mk        func() Work[int, int]
		in        int
		expectR   int
		expectErr error
	}

	errBoom := errors.New("boom")

	tests := []testCase{
		{
			name: "WorkFunc -> success",
			mk: func() Work[int, int] {
				return WorkFunc[int, int](func(_ context.Context, v int) (int, error) { return v + 1, nil })
			},
			in:      6,
			expectR: 7,
		},
		{
			name:    "WorkValue -> success",
			mk:      func() Work[int, int] { return WorkValue[int, int](func(v int) int { return v * v }) },
			in:      5,
			expectR: 25,
		},
		{
			name: "WorkError -> success (nil) returns zero R and nil",
			mk: func() Work[int, int] {
				return WorkError[int, int](func(_ context.Context, _ int) error { return nil })
			},
			in:      3,
			expectR: 0,
		},
		{
			name: "WorkError -> error wrapped as ErrWorkerFailed",
			mk: func() Work[int, int] {
				return WorkError[int, int](func(_ context.Context, _ int) error { return errBoom })
			},
			in:        3,
			expectErr: errBoom,
		},
		{
			name: "WorkFunc -> error drops the partial result",
			mk: func() Work[int, int] {
				return WorkFunc[int, int](func(_ context.Context, v int) (int, error) { return v, errBoom })
			},
			in:        9,
			expectErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.mk().run(context.Background(), tt.in)
			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
				require.ErrorIs(t, err, ErrWorkerFailed)
				require.Zero(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectR, got)
		})
	}
}

func TestWork_Run_RecoversPanic(t *testing.T) {
	w := WorkValue[string, int](func(s string) int { panic("bad input: " + s) })

	got, err := w.run(context.Background(), "x")
	require.Zero(t, got)
	require.ErrorIs(t, err, ErrWorkerFailed)

	v, ok := ExtractPanic(err)
	require.True(t, ok)
	require.Equal(t, "bad input: x", v)
	require.Equal(t, "panicked: bad input: x", err.Error())
}

func TestWork_Run_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	w := WorkFunc[int, string](func(ctx context.Context, _ int) (string, error) {
		return ctx.Value(key{}).(string), nil
	})

	got, err := w.run(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "v", got)
}
