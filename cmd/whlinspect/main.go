// whlinspect parses a wheel file on disk and prints its metadata as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/k8ika0s/wheel-inspector/internal/archive"
	"github.com/k8ika0s/wheel-inspector/internal/distinfo"
	"github.com/k8ika0s/wheel-inspector/internal/record"
	"github.com/k8ika0s/wheel-inspector/internal/wheelname"
)

func main() {
	nameOnly := flag.Bool("name-only", false, "parse the file name only, without opening the archive")
	entries := flag.Bool("entries", false, "include RECORD entries in the output")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: whlinspect [-name-only] [-entries] <wheel>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	name, err := wheelname.Parse(filepath.Base(path))
	if err != nil {
		log.Fatalf("parse name: %v", err)
	}
	if *nameOnly {
		printJSON(name)
		return
	}

	arc, err := archive.Open(path)
	if err != nil {
		log.Fatalf("open wheel: %v", err)
	}
	defer arc.Close()

	info, err := distinfo.Load(arc, name)
	if err != nil {
		log.Fatalf("read dist-info: %v", err)
	}

	out := struct {
		Name        wheelname.WheelName `json:"name"`
		Manifest    any                 `json:"manifest"`
		Entries     int                 `json:"entries"`
		HasMetadata bool                `json:"has_metadata"`
		Record      []record.Entry      `json:"record,omitempty"`
	}{
		Name:        info.Name,
		Manifest:    info.Manifest,
		Entries:     len(info.Record.Entries),
		HasMetadata: info.Metadata != nil,
	}
	if *entries {
		out.Record = info.Record.Entries
	}
	printJSON(out)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Println(string(data))
}
