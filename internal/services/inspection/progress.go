package inspection

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.02f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

type progress interface {
	Increment() *pb.ProgressBar
	Finish() *pb.ProgressBar
}

type noProgress struct{}

func (noProgress) Increment() *pb.ProgressBar { return nil }
func (noProgress) Finish() *pb.ProgressBar    { return nil }

// newProgress starts a frame progress bar on stderr, or a silent one when disabled
func newProgress(enabled bool, total int, name string) progress {
	if !enabled {
		return noProgress{}
	}
	bar := pb.ProgressBarTemplate(progressTemplate).New(total)
	bar.Set("prefix", name)
	bar.SetWriter(os.Stderr)
	return bar.Start()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
