// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"io"
)

// ErrResponseTooLarge is returned by DownloadBuffer.Write once the
// accumulated body would exceed the buffer's limit.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// UploadBuffer is an in-memory request body supporting sequential reads
// and seeking. The read position always stays within [0, Len()].
type UploadBuffer struct {
	data     []byte
	position int64
}

// NewUploadBuffer returns an UploadBuffer positioned at the start of
// data. The buffer does not copy data; the caller must not modify it
// while the buffer is in use.
func NewUploadBuffer(data []byte) *UploadBuffer {
	return &UploadBuffer{data: data}
}

// Len returns the total body length, independent of the read position.
func (u *UploadBuffer) Len() int {
	return len(u.data)
}

// Read copies from the current position and advances it. Returns
// io.EOF once the position reaches the end.
func (u *UploadBuffer) Read(p []byte) (int, error) {
	if u.position >= int64(len(u.data)) {
		return 0, io.EOF
	}
	read := copy(p, u.data[u.position:])
	u.position += int64(read)
	return read, nil
}

// Seek sets the read position relative to the start, the current
// position, or the end. A target outside [0, Len()] is rejected and the
// position is left unchanged.
func (u *UploadBuffer) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = u.position + offset
	case io.SeekEnd:
		target = int64(len(u.data)) + offset
	default:
		return u.position, fmt.Errorf("upload buffer: invalid whence %d", whence)
	}
	if target < 0 || target > int64(len(u.data)) {
		return u.position, fmt.Errorf("upload buffer: seek to %d outside [0, %d]", target, len(u.data))
	}
	u.position = target
	return target, nil
}

// Rewind returns a fresh body for request replay: the same buffer,
// positioned at the start. Its signature matches http.Request.GetBody.
func (u *UploadBuffer) Rewind() (io.ReadCloser, error) {
	if _, err := u.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.NopCloser(u), nil
}

// DownloadBuffer accumulates a response body. It only grows until
// Reset, and String is always safe to call, including before any data
// arrives.
type DownloadBuffer struct {
	data  []byte
	limit int64
}

// NewDownloadBuffer returns an empty buffer bounded at MaxResponseSize.
func NewDownloadBuffer() *DownloadBuffer {
	return &DownloadBuffer{limit: MaxResponseSize}
}

// Write appends p. It fails without writing anything when the total
// would exceed the limit, which aborts an io.Copy in progress.
func (d *DownloadBuffer) Write(p []byte) (int, error) {
	if int64(len(d.data))+int64(len(p)) > d.limit {
		return 0, ErrResponseTooLarge
	}
	d.data = append(d.data, p...)
	return len(p), nil
}

// Fill copies body into the buffer until EOF or the limit.
func (d *DownloadBuffer) Fill(body io.Reader) error {
	_, err := io.Copy(d, body)
	return err
}

// Len returns the number of bytes received.
func (d *DownloadBuffer) Len() int {
	return len(d.data)
}

// Bytes returns the accumulated body. The slice is valid until Reset.
func (d *DownloadBuffer) Bytes() []byte {
	return d.data
}

// String returns the accumulated body as text.
func (d *DownloadBuffer) String() string {
	return string(d.data)
}

// Reset releases the accumulated body.
func (d *DownloadBuffer) Reset() {
	d.data = nil
}
