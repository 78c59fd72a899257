// Package check validates settings documents, many at a time.
//
// # Manager
//
// The Manager runs the same checks an editor applies before saving on every
// block of every given file:
//
//  1. Read and parse the file
//  2. Decode each block
//  3. Validate each parameter (type, options, range, colour syntax)
//
// # Basic Usage
//
//	manager := check.NewManager(4, func(event check.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	results, err := manager.Run(ctx, []string{"a.json", "b.json"})
//	for _, r := range results {
//	    if !r.OK() {
//	        fmt.Println(r.Path, r.Err)
//	    }
//	}
//
// # Concurrency
//
// At most the configured number of files are checked in parallel. The
// progress callback is invoked from several goroutines and must be safe
// for concurrent use.
package check
