// Command daecore exercises the AES-SIV and KMAC cores from the command line: sealing and
// opening files with AES-SIV, and computing KMAC tags or XOF streams.
package main

func main() {
	Execute()
}
