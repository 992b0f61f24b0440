package main

import "flag"

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs
}

func parseOrFatal(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fatal("invalid flags: %v", err)
	}
}
