// Command vcfdump prints the properties of vCard 3.0 files.
//
// Usage:
//
//	vcfdump [flags] [file]
//
// The input is read from file, or from standard input when file is omitted or "-".
// Every card is printed as a list of properties; with --card the contact view
// (full name, structured name) is printed instead.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
