package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON:
		return nil
	}
	return eris.Errorf("unknown format %q (want table or json)", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

// readZipList reads one ZIP code per line. Blank lines and lines starting
// with # are skipped; anything after the first field is ignored.
func readZipList(r io.Reader) ([]string, error) {
	var zips []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		zips = append(zips, fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "read zip list")
	}
	return zips, nil
}
