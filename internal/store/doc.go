// Package store loads and saves blocks of a JSON settings file.
//
// A settings file holds several named blocks, typically one per application
// or component. A Store is bound to one file and, optionally, one active
// block:
//
//	st, err := store.New("settings.json", "ui")
//	if err != nil {
//	    return err // *store.ReadError: missing file or invalid JSON
//	}
//
//	opacity, ok := st.Get("display", "opacity")
//	fallback, _ := st.GetDefault("display", "opacity")
//
// # Reading
//
// Load rereads the file every time it is called and replaces everything the
// store knows. Asking for a block the file does not have yields an empty
// block without touching the file. Get and GetDefault never fail: a path
// that does not resolve, or a parameter in auto mode, reads as absent.
//
// # Writing
//
// Save replaces one block and writes the whole document back, indented with
// four spaces. Blocks, sections and fields the caller did not touch are kept,
// in their original order. The write goes through a temporary file that is
// renamed over the original.
//
// # Errors
//
//	var rerr *store.ReadError
//	if errors.As(err, &rerr) && errors.Is(err, fs.ErrNotExist) {
//	    // no settings file yet
//	}
//
// # Filesystems
//
// The OS filesystem is used by default. Tests and tools can pass any billy
// filesystem that satisfies ioutils.FS:
//
//	st, err := store.New("/settings.json", "ui", store.WithFilesystem(memfs.New()))
package store
