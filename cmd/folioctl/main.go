// Command folioctl administers a folio store directly, without the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
