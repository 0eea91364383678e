// Package main provides the CLI entrypoint for propbind-mapping.
//
// propbind-mapping checks column-mapping YAML files before they ship with
// an application: each file is parsed with the same loader the binder uses,
// so a file that passes here is guaranteed to load at runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"propbind/binder"
)

func main() {
	quiet := flag.Bool("q", false, "only report errors")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: propbind-mapping [-q] <mapping.yaml> ...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		m, err := binder.LoadMapping(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}

		if !*quiet {
			fmt.Printf("%s: ok (version %s)\n", path, m.Version)
		}
	}

	if failed {
		os.Exit(1)
	}
}
