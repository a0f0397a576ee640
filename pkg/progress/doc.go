// Package progress draws a single-line progress bar that updates in place.
//
//	bar := progress.New(
//	    progress.WithDescription("Copying"),
//	    progress.WithTotal(uint64(len(files))),
//	)
//	defer bar.Close()
//
//	for range files {
//	    bar.Increment()
//	}
//
// Redraws are throttled to the bar's timeout; Close always draws once more
// so the last frame shows the final count.
package progress
