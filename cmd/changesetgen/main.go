// Changesetgen generates change tracking artifacts for the record structs
// of a package: a field enum, a change value, a setter interface, three
// store flavors with cursors, and msgpack codecs, all built on
// github.com/andreyvit/changeset.
//
// Usage:
//
//	changesetgen -type Display,Settings [-dir .] [-output file.go] [-pkg name] [-check] [-v]
//
// Every exported field of a requested struct is tracked unless it carries
// a `changeset:"-"` tag. Field types must be builtin scalars, string, or
// another struct of the same package, which is then generated as a nested
// record automatically. Unexported fields are skipped.
//
// With -check the tool verifies that the output file matches what it
// would generate and fails otherwise; wire that into CI next to go vet.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("changesetgen: ")
	var (
		typeNames = flag.String("type", "", "comma-separated list of record struct names (required)")
		dir       = flag.String("dir", ".", "package directory to scan")
		output    = flag.String("output", "", "output file name (default changeset_gen.go in the scanned directory)")
		pkgName   = flag.String("pkg", "", "package name for the generated file (default the scanned package)")
		check     = flag.Bool("check", false, "verify that the output file is up to date instead of rewriting it")
		verbose   = flag.Bool("v", false, "print debug details")
	)
	flag.Usage = usage
	flag.Parse()
	if *typeNames == "" || flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	pkg, err := loadPackage(*dir)
	if err != nil {
		log.Fatal(err)
	}
	records, err := resolveRecords(pkg, strings.Split(*typeNames, ","))
	if err != nil {
		log.Fatal(err)
	}
	name := pkg.Name
	if *pkgName != "" {
		name = *pkgName
	}
	src, err := generate(name, records)
	if err != nil {
		log.Fatal(err)
	}

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(*dir, "changeset_gen.go")
	}
	if *check {
		old, err := os.ReadFile(outPath)
		if err != nil {
			log.Fatalf("cannot check %s: %v", outPath, err)
		}
		if !bytes.Equal(old, src) {
			log.Fatalf("%s is out of date, rerun changesetgen", outPath)
		}
		slog.Debug("output is up to date", "path", outPath)
		return
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		log.Fatal(err)
	}
	slog.Debug("wrote output", "path", outPath, "bytes", len(src))
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: changesetgen -type T1[,T2...] [-dir dir] [-output file.go] [-pkg name] [-check] [-v]")
	flag.PrintDefaults()
}
