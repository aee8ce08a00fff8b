// Package arrio exposes primitives to copy Arrow records from a table scan
// to an output.
package arrio

import (
	"errors"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// Reader is the interface that wraps the Read method.
type Reader interface {
	// Read reads the current record from the underlying stream and an error, if any.
	// When the Reader reaches the end of the underlying stream, it returns (nil, io.EOF).
	Read() (arrow.Record, error)
}

// Writer is the interface that wraps the Write method.
type Writer interface {
	Write(rec arrow.Record) error
}

// Copy copies all the records available from src to dst.
// Copy returns the number of records copied and the first error
// encountered while copying, if any.
//
// A successful Copy returns err == nil, not err == EOF. Because Copy is
// defined to read from src until EOF, it does not treat an EOF from Read as an
// error to be reported.
func Copy(dst Writer, src Reader) (n int64, err error) {
	for {
		rec, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		err = dst.Write(rec)
		if err != nil {
			return n, err
		}
		n++
	}
}

// RecordReader adapts an array.RecordReader, such as a table scan, to Reader.
// Records are only valid until the next call to Read.
type RecordReader struct {
	rdr array.RecordReader
}

// NewRecordReader wraps rdr. The caller keeps ownership of rdr.
func NewRecordReader(rdr array.RecordReader) *RecordReader {
	return &RecordReader{rdr: rdr}
}

func (r *RecordReader) Read() (arrow.Record, error) {
	if r.rdr.Next() {
		return r.rdr.Record(), nil
	}
	if err := r.rdr.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
