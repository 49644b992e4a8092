// Package main provides the entry point for the tagscan CLI.
//
// tagscan reads LifeTag QR codes, which carry a person's public emergency
// information, and shows the six public fields together with a call link
// for the emergency contact.
//
// Usage:
//
//	tagscan scan
//	tagscan decode "{'public': {'full_name': 'Jane Doe'}}"
//	tagscan encode --full-name "Jane Doe" -o tag.png
//
// See --help for all available options.
package main

// main is the entry point for tagscan.
func main() {
	Execute()
}
