package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Options configures the progress reporter.
type Options struct {
	// SourceURL is the URL being fetched (for display).
	SourceURL string

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer
}

// Reporter renders fetch progress as a terminal bar. It is driven from
// the loader's progress callbacks, which arrive on another goroutine.
type Reporter struct {
	opts Options

	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	total    int64
	finished bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Reporter{opts: opts}
}

// Update records the cumulative byte count. The bar is created on the
// first update (a spinner while the total is unknown) and resized if a
// late length header changes the total.
func (r *Reporter) Update(bytesLoaded, bytesTotal int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}

	if r.bar == nil {
		total := bytesTotal
		if total <= 0 {
			total = -1
		}
		r.total = total
		r.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription("[sip] "+r.opts.SourceURL),
			progressbar.OptionSetWriter(r.opts.Output),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
	} else if bytesTotal > 0 && bytesTotal != r.total {
		r.total = bytesTotal
		r.bar.ChangeMax64(bytesTotal)
	}

	r.bar.Set64(bytesLoaded)
}

// Finish completes the bar and prints a summary line.
func (r *Reporter) Finish(bytesLoaded int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	if r.bar != nil {
		r.bar.Finish()
	}
	fmt.Fprintf(r.opts.Output, "[sip] Fetched %s from %s\n", FormatBytes(bytesLoaded), r.opts.SourceURL)
}

// Stop tears the bar down without a summary, for failed or aborted
// fetches.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	if r.bar != nil {
		r.bar.Exit()
		fmt.Fprintln(r.opts.Output)
	}
}

// FormatBytes formats bytes as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// ParseBytes parses a human-readable byte string (e.g., "256MB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = trimSuffix(s, " ")

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func trimSuffix(s, suffix string) string {
	for hasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
