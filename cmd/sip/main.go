package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitTimeout      = 3
	ExitHTTPError    = 4
	ExitAborted      = 5
	ExitStorageError = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "head":
		return runHead(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: sip <command> [options]

Commands:
  fetch  Fetch one HTTP resource (optionally byte-ranged) to a file,
         stdout, or an object-storage bucket
  head   Preview response metadata for a URL

Run 'sip <command> -h' for command-specific help.`)
}
