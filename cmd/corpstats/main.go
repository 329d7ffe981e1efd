// Command corpstats serves and synchronizes corporation membership rosters.
package main

import "os"

func main() {
	os.Exit(execute())
}
