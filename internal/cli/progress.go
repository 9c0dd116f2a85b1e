package cli

import (
	"sync"

	"github.com/schollz/progressbar/v3"
)

// progressReporter renders a spinner-style progress bar while files are
// extracted. File count is unknown up front, so the bar is indeterminate.
type progressReporter struct {
	quiet bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressReporter(quiet bool) *progressReporter {
	r := &progressReporter{quiet: quiet}
	if !quiet {
		r.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Extracting tags"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

// onFile is safe for concurrent use; extraction runs across workers.
func (r *progressReporter) onFile(relPath string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Add(1)
}

func (r *progressReporter) finish() {
	if r.quiet || r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}
