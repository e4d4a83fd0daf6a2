// Command prism runs the Prism saturation effect outside a plugin host.
//
// Usage:
//
//	prism <command> [flags]
//
// Commands:
//
//	render   process a WAV file through the effect
//	analyze  compare aliasing with and without oversampling per algorithm
//	play     play a file or test tone through the effect in real time
//	state    dump or write parameter state files
//
// Examples:
//
//	prism render -in dry.wav -out wet.wav -input 12 -algo sinefold
//	prism render -in dry.wav -out wet.wav -automation sweep.lua -jitter
//	prism analyze -freq 5000 -drive 12
//	prism play -freq 220 -state warm.prism -watch
//	prism state -write warm.prism -input 9 -mix 60
//	prism state -dump warm.prism
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

var commands = []command{
	{"render", "process a WAV file through the effect", runRender},
	{"analyze", "compare aliasing with and without oversampling", runAnalyze},
	{"play", "play a file or test tone through the effect", runPlay},
	{"state", "dump or write parameter state files", runState},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "-h" || name == "-help" || name == "help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name == name {
			if err := c.run(os.Args[2:]); err != nil {
				die(err)
			}

			return
		}
	}

	fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: prism <command> [flags]\n\nCommands:\n")

	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}

	fmt.Fprintf(os.Stderr, "\nRun 'prism <command> -h' for command flags.\n")
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// newFlagSet returns a flag set that reports errors instead of exiting, plus
// a -v flag for debug logging.
func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	verbose := fs.Bool("v", false, "debug logging")

	return fs, verbose
}

func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}
