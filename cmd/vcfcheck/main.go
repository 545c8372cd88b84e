/*
vcfcheck is a console utility validating VCF v4.1 files.
Usage is

	vcfcheck validate [flags] [<file>...]
	vcfcheck runs --db <file> [--limit <n>] [-v]

validate checks every file (standard input if no file or "-" is given) and prints
diagnostics in text, JSON or YAML format. Gzip and bgzip compressed files are accepted.
Exit code is 1 if any file is invalid or cannot be read.

runs lists validation runs recorded with validate --db.

Settings may be read from a TOML, YAML or HCL file given with --config;
flags set on the command line override the file.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "vcfcheck:", err)
		}
		os.Exit(1)
	}
}
