// Package main provides the entry point for the mirrorcrawl CLI.
//
// mirrorcrawl mirrors a website: starting from a seed URL it fetches every
// page reachable through same-host links and writes each one to
// <output>/<url path>/index.html.
//
// Usage:
//
//	mirrorcrawl crawl [seed-url]
//	mirrorcrawl history [run-id]
//
// See --help for all available options.
package main

func main() {
	Execute()
}
