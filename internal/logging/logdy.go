package logging

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/config"
)

// logdyWriter forwards zerolog JSON lines to the Logdy UI, tagged with the client id so runs
// from several clients can share one viewer.
type logdyWriter struct {
	sink func(string)
	tag  []byte
}

func newLogdyWriter(sink func(string), clientID string) *logdyWriter {
	return &logdyWriter{
		sink: sink,
		tag:  []byte(`{"client_id":` + strconv.Quote(clientID) + `,`),
	}
}

func (w *logdyWriter) Write(p []byte) (int, error) {
	line := bytes.TrimRight(p, "\n")
	if len(line) == 0 {
		return len(p), nil
	}
	if line[0] == '{' && !bytes.Contains(line, []byte(`"client_id"`)) {
		tagged := make([]byte, 0, len(w.tag)+len(line))
		tagged = append(tagged, w.tag...)
		if len(line) > 2 {
			tagged = append(tagged, line[1:]...)
		} else {
			tagged = append(tagged[:len(tagged)-1], '}')
		}
		line = tagged
	}
	w.sink(string(line))
	return len(p), nil
}

// StartLogdy starts the embedded Logdy UI and returns a writer to tee logs into, plus the UI URL
func StartLogdy(cfg *config.Config) (io.Writer, string) {
	port := strconv.Itoa(cfg.LogdyPort)
	ld := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)

	url := fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)
	log.Info().Str("url", url).Str("client_id", cfg.ClientID).Msg("Logdy UI available")
	return newLogdyWriter(func(line string) { ld.LogString(line) }, cfg.ClientID), url
}
