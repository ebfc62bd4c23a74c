// Package utils contains utility functions for the withdrawal daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the daemon banner with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█▀▀░█░█░█▀█░█▀█░█▀▀░█▀▀░█▀▄░
 ░█░░░█▀█░█░█░█░█░▀▀█░█▀▀░█▀▄░
 ░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀▀▀░▀▀▀░▀░▀░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n withdrawd v%s - Concurrent course withdrawal engine\n", version)
	fmt.Println()
}
