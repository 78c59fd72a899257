// Package editor provides editing sessions over one block of a settings
// store.
//
// A Session follows the life of a settings dialog: open a block, change
// values, toggle auto mode, reset to defaults, then apply, commit or cancel.
//
// # Basic Usage
//
//	st, err := store.New("settings.json", "ui")
//	sess, err := editor.Open(st, "", editor.WithEvents(func(e editor.Event) {
//	    fmt.Println(e.Kind, e.Message)
//	}))
//
//	_ = sess.SetText("display", "opacity", "0.8")
//	_ = sess.SetAuto("layout", "width", true)
//	_ = sess.Reset("colors")        // whole section
//	_ = sess.Reset("fonts", "size") // selected parameters
//
//	err = sess.Commit() // or sess.Cancel()
//
// # Collecting
//
// Apply and Commit do not write the session's copy of the block as is. The
// block is reread from the file first and only the parameters edited in the
// session are copied over, so changes made by others to other parameters
// survive. Edits to parameters that have disappeared are dropped.
//
// # Events
//
// Every change, reset, apply, commit and cancel is reported to the callback
// given with WithEvents. EventApplied is sent after each successful save.
package editor
