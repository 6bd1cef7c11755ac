/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"time"

	"github.com/toothbrush/atlassian-rag/dump"
)

// openRunLog tees the standard logger into logs/<command>_<stamp>.log so a
// run leaves an audit trail next to its data files.  The returned func
// restores stderr-only logging and closes the file.
func openRunLog(w *dump.Writer, command string) (func(), error) {
	dir, err := w.Prepare(dump.LogsDir)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s.log", command, time.Now().Format("20060102_150405"))
	f, err := os.Create(path.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't create log file %s: %w", name, err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		log.SetOutput(os.Stderr)
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: couldn't close log file: %v\n", err)
		}
	}, nil
}
