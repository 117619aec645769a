// Package diag provides the receiver's bracket-tagged diagnostic logging,
// matching xsjk-Aethernet's pkg/modem fmt.Printf("[Tag] ...") convention
// rather than a structured logging library the teacher never reaches for.
package diag

import "fmt"

// Verbose gates Printf output; cofdmtv-rx sets it from the config's
// diag.verbose setting.
var Verbose = false

// Printf writes a "[tag] message" diagnostic line when Verbose is set.
func Printf(tag, format string, args ...any) {
	if !Verbose {
		return
	}
	fmt.Printf("[%s] "+format+"\n", append([]any{tag}, args...)...)
}
