package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogdyWriterTagsClientID(t *testing.T) {
	var lines []string
	w := newLogdyWriter(func(line string) { lines = append(lines, line) }, "bridge-7")

	logger := zerolog.New(w)
	logger.Info().Str("file", "a.jpg").Msg("Image inspected")
	logger.Log().Msg("")

	n, err := w.Write([]byte("\n"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Len(t, lines, 2)
	require.JSONEq(t, `{"client_id":"bridge-7","level":"info","file":"a.jpg","message":"Image inspected"}`, lines[0])
	require.JSONEq(t, `{"client_id":"bridge-7"}`, lines[1])
}

func TestLogdyWriterKeepsExistingClientID(t *testing.T) {
	var lines []string
	w := newLogdyWriter(func(line string) { lines = append(lines, line) }, "bridge-7")

	_, err := w.Write([]byte(`{"client_id":"other","message":"x"}` + "\n"))
	require.NoError(t, err)
	require.Equal(t, []string{`{"client_id":"other","message":"x"}`}, lines)
}
