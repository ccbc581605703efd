// Package lineio reads and writes logical lines of delimited text.
//
// A logical line is one record of a comma- or tab-delimited file. It may
// span several physical lines when a quoted field contains embedded line
// terminators, so the scanner tracks quote state across physical-line
// boundaries and only yields a line once every opened quote has closed.
// The same scanner is used on source files and on intermediate files, so a
// multi-physical-line record survives a write/read round trip unmodified.
//
// Basic usage:
//
//	sc, err := lineio.NewScanner(r, lineio.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for sc.Scan() {
//	    fmt.Println(sc.Text())
//	}
//	if err := sc.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// Text is decoded to UTF-8 on the way in and encoded back to the configured
// encoding on the way out. Supported encodings are UTF-8, Shift-JIS,
// Windows-31J, EUC-JP and UTF-16 (LE/BE). Decoding is strict: a byte
// sequence with no mapping under the configured encoding fails the scan
// with an error matching ErrEncoding rather than being substituted.
package lineio
