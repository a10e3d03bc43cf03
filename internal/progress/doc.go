// Package progress renders fetch progress in the terminal.
//
// The Reporter bridges loader progress callbacks to a progress bar: feed
// it the cumulative byte counts from each OnProgress event and call
// Finish (or Stop, on failure) when the load settles.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    SourceURL: url,
//	    Output:    os.Stderr,
//	})
//
//	cb.OnProgress = func(stats loader.Stats, req loader.Request, chunk []byte, resp *http.Response) {
//	    reporter.Update(stats.BytesLoaded, stats.BytesTotal)
//	}
//
//	// after settlement
//	reporter.Finish(stats.BytesLoaded)
//
// The package also exposes FormatBytes/ParseBytes helpers for
// human-readable byte sizes, used by the config package for range
// bounds.
package progress
