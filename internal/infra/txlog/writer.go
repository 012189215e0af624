// Package txlog implements the chainstream Emitter contract on a local
// append-only text log, one record per line:
//
//	d <id>   deployment transaction, id is the chaincode name
//	i <id>   invocation transaction, id is the transaction identifier
//	b <n>    block n fully processed, written after all its transactions
package txlog

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gabapcia/chaintail/internal/chainstream"
)

// Record prefixes of the transaction log format.
const (
	deployPrefix   = "d"
	invokePrefix   = "i"
	boundaryPrefix = "b"
)

// Writer is a buffered transaction log writer. It is not safe for concurrent
// use; the stream driver is its only writer and runs on a single goroutine.
type Writer struct {
	buf  *bufio.Writer
	file *os.File // nil when the destination is not an owned file
	path string
}

var _ chainstream.Emitter = (*Writer)(nil)

// newWriter wraps an arbitrary destination. Used by NewStdout and tests.
func newWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// NewStdout returns a Writer emitting to standard output. Close flushes but
// leaves the underlying stream open.
func NewStdout() *Writer {
	return newWriter(os.Stdout)
}

// NewFile creates (or truncates) the log file at path and returns a Writer
// over it. The caller owns the Close and, in delete-on-exit mode, the Remove.
func NewFile(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transaction log %s: %w", path, err)
	}

	return &Writer{
		buf:  bufio.NewWriter(file),
		file: file,
		path: path,
	}, nil
}

// EmitTransaction writes one transaction line.
func (w *Writer) EmitTransaction(txType chainstream.TxType, id string) error {
	var prefix string
	switch txType {
	case chainstream.TxTypeDeploy:
		prefix = deployPrefix
	case chainstream.TxTypeInvoke:
		prefix = invokePrefix
	default:
		return fmt.Errorf("unmapped transaction type %d", txType)
	}

	_, err := fmt.Fprintf(w.buf, "%s %s\n", prefix, id)
	return err
}

// EmitBlockBoundary writes the boundary line for a fully processed block.
func (w *Writer) EmitBlockBoundary(number uint64) error {
	_, err := fmt.Fprintf(w.buf, "%s %d\n", boundaryPrefix, number)
	return err
}

// Flush forces buffered records out to the destination.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Close flushes buffered records and, when the Writer owns a file, closes it.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// Remove deletes the log file. Only meaningful after Close on a file-backed
// Writer; it is a no-op for stream destinations.
func (w *Writer) Remove() error {
	if w.file == nil {
		return nil
	}
	return os.Remove(w.path)
}

// Path reports the file path backing the Writer, or an empty string for
// stream destinations.
func (w *Writer) Path() string {
	return w.path
}
