// Package seqio provides a single streaming record iterator over FASTA and
// FASTQ input, auto-detecting the framing from the first non-blank byte
// (">"  for FASTA, "@" for FASTQ). It is the ingestion front-end for
// multiseq.Build. Grounded on encoding/fasta's bufio.Scanner-based line
// framing and encoding/fastq's four-line record scanner, unified behind
// one Reader interface and routed through github.com/grailbio/base/file
// so inputs can live on any of the teacher's supported file backends (not
// just local disk).
package seqio

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Record is one named sequence read from a FASTA or FASTQ file. Qual is
// nil for FASTA records.
type Record struct {
	Name string
	Seq  []byte
	Qual []byte
}

// Reader streams Records from a single FASTA or FASTQ source.
type Reader struct {
	sc      *bufio.Scanner
	fastq   bool
	closer  io.Closer
	pending []byte // a header line already consumed while peeking the framing byte
	done    bool
	err     error
}

const scannerBufferCap = 64 * 1024 * 1024

// Open opens path (via github.com/grailbio/base/file, so it may be a
// local path or any URL scheme the teacher's file package registers) and
// returns a Reader that auto-detects FASTA vs FASTQ framing from the
// first non-blank byte.
func Open(ctx context.Context, path string) (*Reader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: open %s", path)
	}
	r := f.Reader(ctx)
	return newReader(r, fileCloser{f: f, ctx: ctx})
}

type fileCloser struct {
	f   file.File
	ctx context.Context
}

func (c fileCloser) Close() error { return c.f.Close(c.ctx) }

// NewReader wraps an already-open stream, for callers (tests, pipes) that
// do not go through github.com/grailbio/base/file.
func NewReader(r io.Reader) (*Reader, error) {
	return newReader(r, nil)
}

func newReader(r io.Reader, closer io.Closer) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), scannerBufferCap)
	reader := &Reader{sc: sc, closer: closer}
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '>':
			reader.fastq = false
		case '@':
			reader.fastq = true
		default:
			return nil, errors.Errorf("seqio: unrecognized record framing byte %q", line[0])
		}
		reader.pending = append([]byte(nil), line...)
		return reader, nil
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "seqio: reading first record header")
	}
	reader.done = true
	return reader, nil
}

// Next reads the next record, or returns ok=false at end of stream (check
// Err to distinguish EOF from a read error).
func (r *Reader) Next() (rec Record, ok bool) {
	if r.done || r.err != nil {
		return Record{}, false
	}
	if r.fastq {
		return r.nextFastq()
	}
	return r.nextFasta()
}

func (r *Reader) nextFasta() (Record, bool) {
	header := r.pending
	r.pending = nil
	if header == nil {
		for r.sc.Scan() {
			line := r.sc.Bytes()
			if len(line) == 0 {
				continue
			}
			header = append([]byte(nil), line...)
			break
		}
		if header == nil {
			r.finish()
			return Record{}, false
		}
	}
	if header[0] != '>' {
		r.err = errors.Errorf("seqio: expected FASTA header, got %q", header)
		return Record{}, false
	}
	name := strings.SplitN(string(header[1:]), " ", 2)[0]
	var seq []byte
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.pending = append([]byte(nil), line...)
			return Record{Name: name, Seq: seq}, true
		}
		seq = append(seq, line...)
	}
	if err := r.sc.Err(); err != nil {
		r.err = errors.Wrap(err, "seqio: reading FASTA body")
		return Record{}, false
	}
	r.finish()
	return Record{Name: name, Seq: seq}, true
}

func (r *Reader) nextFastq() (Record, bool) {
	header := r.pending
	r.pending = nil
	if header == nil {
		if !r.sc.Scan() {
			r.finish()
			return Record{}, false
		}
		header = r.sc.Bytes()
	}
	if len(header) == 0 || header[0] != '@' {
		r.err = errors.Errorf("seqio: expected FASTQ '@' header, got %q", header)
		return Record{}, false
	}
	name := strings.SplitN(string(header[1:]), " ", 2)[0]
	if !r.sc.Scan() {
		r.err = errors.New("seqio: truncated FASTQ record (missing sequence line)")
		return Record{}, false
	}
	seq := append([]byte(nil), r.sc.Bytes()...)
	if !r.sc.Scan() {
		r.err = errors.New("seqio: truncated FASTQ record (missing '+' line)")
		return Record{}, false
	}
	if plus := r.sc.Bytes(); len(plus) == 0 || plus[0] != '+' {
		r.err = errors.Errorf("seqio: expected FASTQ '+' line, got %q", plus)
		return Record{}, false
	}
	if !r.sc.Scan() {
		r.err = errors.New("seqio: truncated FASTQ record (missing quality line)")
		return Record{}, false
	}
	qual := append([]byte(nil), r.sc.Bytes()...)
	return Record{Name: name, Seq: seq, Qual: qual}, true
}

func (r *Reader) finish() {
	r.done = true
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying file handle, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
