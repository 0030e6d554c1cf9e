package handle

import (
	"bufio"
	"os"
)

type fileOps struct {
	f *os.File
	r *bufio.Reader
	w *bufio.Writer
}

func (o *fileOps) readByte() (byte, error) { return o.r.ReadByte() }

func (o *fileOps) writeByte(b byte) error {
	if o.w == nil {
		return ErrClosed
	}
	return o.w.WriteByte(b)
}

func (o *fileOps) writeString(s string) error {
	if o.w == nil {
		return ErrClosed
	}
	_, err := o.w.WriteString(s)
	return err
}

func (o *fileOps) flush() error {
	if o.w == nil {
		return nil
	}
	return o.w.Flush()
}

func (o *fileOps) seek(offset int64, whence int) (int64, error) {
	if o.w != nil {
		if err := o.w.Flush(); err != nil {
			return 0, err
		}
	}
	pos, err := o.f.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	if o.r != nil {
		o.r.Reset(o.f)
	}
	return pos, nil
}

func (o *fileOps) close() error { return o.f.Close() }

func (o *fileOps) ready() bool {
	if o.r == nil {
		return false
	}
	_, err := o.r.Peek(1)
	return err == nil
}

// OpenFile opens path in mode ("r", "w", "rw") and wraps it as a Handle.
func OpenFile(path, mode string) (*Handle, error) {
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "rw":
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, os.ErrInvalid
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return WrapFile(path, f, mode), nil
}

// WrapFile builds a Handle around an already-open file, e.g. stdin/stdout/stderr.
func WrapFile(name string, f *os.File, mode string) *Handle {
	ops := &fileOps{f: f}
	if mode != "w" {
		ops.r = bufio.NewReader(f)
	}
	if mode != "r" {
		ops.w = bufio.NewWriter(f)
	}
	return newHandle(name, ops)
}
