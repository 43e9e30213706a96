package main

import (
	"fmt"
	"os"

	"github.com/openclaw/voucher-server-go/internal/util"
)

// Prints the pinHash stored for a partner credential, for seeding or
// checking records by hand. Uses PIN_SALT from the environment.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: PIN_SALT=... go run scripts/hash-pin.go <pin>\n")
		os.Exit(1)
	}

	salt := os.Getenv("PIN_SALT")
	if salt == "" {
		fmt.Fprintln(os.Stderr, "Warning: PIN_SALT is empty")
	}

	fmt.Println(util.HashPIN(os.Args[1], salt))
}
