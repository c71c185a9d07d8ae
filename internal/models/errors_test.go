package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := fmt.Errorf("%w: %w", ErrRemoteRequestFailed, context.DeadlineExceeded)
	err := Wrap("inspect image", "a.jpg", cause)

	require.ErrorIs(t, err, ErrRemoteRequestFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrUnexpected)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, "inspect image", opErr.Op)
	require.Equal(t, "a.jpg", opErr.Path)
	require.Contains(t, err.Error(), "inspect image a.jpg")
}

func TestWrapClassifiesUnknownFaultsAsUnexpected(t *testing.T) {
	err := Wrap("write output", "", fs.ErrPermission)

	require.ErrorIs(t, err, ErrUnexpected)
	require.ErrorIs(t, err, fs.ErrPermission)
	require.Equal(t, ErrUnexpected, KindOf(err))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap("noop", "", nil))
}

func TestKindsAreDistinguishable(t *testing.T) {
	for _, k := range kinds {
		err := Wrap("op", "", k)
		for _, other := range kinds {
			if other == k {
				require.ErrorIs(t, err, other)
				continue
			}
			require.NotErrorIs(t, err, other)
		}
	}
}
