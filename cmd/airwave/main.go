// Command airwave searches public radio directory mirrors for stations
// matching a listening profile, from the command line or over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
