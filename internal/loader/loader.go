// Package loader reads key/value text files into a string table.
//
// One pair per line, split at the first separator. Empty lines and lines
// starting with '#' are skipped. Keys and values are taken verbatim (no
// trimming), since lookups match bytes exactly.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	commentPrefix = "#"

	scannerInitialBufferSize = 64 * 1024
	scannerMaxLineSize       = 16 * 1024 * 1024
)

var ErrSyntax = errors.New("malformed line")

// Setter receives each parsed pair. Both stringhash.Table and
// stringhash.ConcurrentTable satisfy it.
type Setter interface {
	Set(key, value string)
}

// Encodings lists the accepted encoding names.
var Encodings = []string{"utf-8", "utf-16le", "windows-1252", "iso-8859-1"}

// LookupEncoding maps an encoding name to its decoder. It returns nil for
// UTF-8, which needs no decoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q (want one of %s)", name, strings.Join(Encodings, ", "))
}

// Options controls Load.
type Options struct {
	Encoding  string
	Separator string
}

// Result summarizes a Load.
type Result struct {
	Lines   int
	Pairs   int
	Skipped int
}

// Load parses r and calls dst.Set for each pair, in file order. A later
// line for the same key replaces the earlier value.
func Load(r io.Reader, dst Setter, opts Options) (Result, error) {
	var res Result

	sep := opts.Separator
	if sep == "" {
		sep = "="
	}

	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return res, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, scannerInitialBufferSize)
	scanner.Buffer(buf, scannerMaxLineSize)

	for scanner.Scan() {
		res.Lines++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "" || strings.HasPrefix(line, commentPrefix) {
			res.Skipped++
			continue
		}

		key, value, ok := strings.Cut(line, sep)
		if !ok {
			return res, fmt.Errorf("line %d: %w: missing separator %q", res.Lines, ErrSyntax, sep)
		}
		dst.Set(key, value)
		res.Pairs++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("line %d: %w", res.Lines+1, err)
	}
	return res, nil
}
