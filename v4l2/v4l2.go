// ircam-viewer - view and record Y16 infrared camera video
//  Copyright (C) 2026, the ircam-viewer authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

//go:build linux && (amd64 || arm64)

// Package v4l2 drives a V4L2 streaming capture device without cgo.
// Frames are delivered zero-copy out of a pool of mmapped driver
// buffers; callers must return every frame with Release before the
// driver can reuse its memory.
package v4l2

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ircam-tools/ircam-viewer/camera"
)

// ErrNoFrame is returned by NextFrame when the wait for a frame was
// interrupted by a signal. It is retryable: callers should check
// their stop flag and call NextFrame again.
var ErrNoFrame = errors.New("v4l2: no frame ready")

// Device is an open V4L2 capture device. Not safe for concurrent
// use.
type Device struct {
	fd        int
	desc      *camera.Descriptor
	pool      *slotPool
	mmaps     [][]byte
	streaming bool
}

// Frame is a zero-copy view into a mmapped driver buffer, offset
// past the descriptor's skip region. Data is valid only until the
// frame is passed to Release.
type Frame struct {
	Data []byte
	Seq  uint32
	// Slot is the kernel buffer index backing this frame.
	Slot int
}

// Descriptor returns the camera descriptor the device was opened
// with.
func (d *Device) Descriptor() *camera.Descriptor {
	return d.desc
}

// Open opens the device at path and negotiates the descriptor's
// capture format and frame rate. Streaming does not start until
// StartStream is called.
func Open(path string, desc *camera.Descriptor) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("v4l2: can't open %s: %v", path, err)
	}
	d := &Device{fd: fd, desc: desc}

	var cap v4l2Capability
	if err := d.ioctl(vidiocQuerycap, unsafe.Pointer(&cap)); err != nil {
		d.closeFD()
		return nil, fmt.Errorf("v4l2: QUERYCAP %s: %v", path, err)
	}
	if cap.deviceCaps&capVideoCapture == 0 {
		d.closeFD()
		return nil, fmt.Errorf("v4l2: %s has no capture support", path)
	}
	if cap.deviceCaps&capStreaming == 0 {
		d.closeFD()
		return nil, fmt.Errorf("v4l2: %s has no streaming support", path)
	}

	format := v4l2Format{
		typ: bufTypeVideoCapture,
		pix: v4l2PixFormat{
			width:       uint32(desc.CaptureWidth),
			height:      uint32(desc.CaptureHeight),
			pixelformat: desc.PixelFormat,
		},
	}
	if err := d.ioctl(vidiocSFmt, unsafe.Pointer(&format)); err != nil {
		d.closeFD()
		return nil, fmt.Errorf("v4l2: S_FMT: %v", err)
	}

	parm := v4l2Streamparm{
		typ: bufTypeVideoCapture,
		capture: v4l2Captureparm{
			timeperframe: v4l2Fract{numerator: 1, denominator: desc.FPS},
		},
	}
	if err := d.ioctl(vidiocSParm, unsafe.Pointer(&parm)); err != nil {
		d.closeFD()
		return nil, fmt.Errorf("v4l2: S_PARM: %v", err)
	}

	return d, nil
}

// StartStream requests the buffer pool, maps every slot into the
// process, queues all slots to the kernel and enables streaming.
func (d *Device) StartStream() error {
	req := v4l2Requestbuffers{
		count:  MaxSlots,
		typ:    bufTypeVideoCapture,
		memory: memoryMmap,
	}
	if err := d.ioctl(vidiocReqbufs, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("v4l2: REQBUFS: %v", err)
	}

	pool, err := newSlotPool(int(req.count))
	if err != nil {
		return err
	}

	mmaps := make([][]byte, pool.size())
	for i := range mmaps {
		buf := v4l2Buffer{
			typ:    bufTypeVideoCapture,
			memory: memoryMmap,
			index:  uint32(i),
		}
		if err := d.ioctl(vidiocQuerybuf, unsafe.Pointer(&buf)); err != nil {
			d.unmapAll(mmaps)
			return fmt.Errorf("v4l2: QUERYBUF %d: %v", i, err)
		}
		m, err := unix.Mmap(d.fd, int64(uint32(buf.m)), int(buf.length),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			d.unmapAll(mmaps)
			return fmt.Errorf("v4l2: can't mmap buffer %d: %v", i, err)
		}
		mmaps[i] = m
	}

	for i := range mmaps {
		buf := v4l2Buffer{
			typ:    bufTypeVideoCapture,
			memory: memoryMmap,
			index:  uint32(i),
		}
		if err := d.ioctl(vidiocQbuf, unsafe.Pointer(&buf)); err != nil {
			d.unmapAll(mmaps)
			return fmt.Errorf("v4l2: initial QBUF %d: %v", i, err)
		}
	}

	typ := int32(bufTypeVideoCapture)
	if err := d.ioctl(vidiocStreamon, unsafe.Pointer(&typ)); err != nil {
		d.unmapAll(mmaps)
		return fmt.Errorf("v4l2: STREAMON: %v", err)
	}

	d.pool = pool
	d.mmaps = mmaps
	d.streaming = true
	return nil
}

// NextFrame dequeues the next completed driver buffer, blocking on
// device readiness if none is available yet. On a signal it returns
// ErrNoFrame so the caller can check its stop flag and retry. The
// returned frame's payload size is validated against the descriptor;
// a mismatch means the wrong device is bound and is fatal.
func (d *Device) NextFrame() (Frame, error) {
	for {
		buf := v4l2Buffer{
			typ:    bufTypeVideoCapture,
			memory: memoryMmap,
		}
		err := d.ioctl(vidiocDqbuf, unsafe.Pointer(&buf))
		if err == nil {
			if err := d.pool.acquire(int(buf.index)); err != nil {
				return Frame{}, err
			}
			want := d.desc.RawSkip + d.desc.RawSize
			if buf.bytesused != want {
				return Frame{}, fmt.Errorf(
					"v4l2: bad frame size (%d != %d), is this the right device?",
					buf.bytesused, want)
			}
			data := d.mmaps[buf.index][d.desc.RawSkip:buf.bytesused]
			return Frame{Data: data, Seq: buf.sequence, Slot: int(buf.index)}, nil
		}
		if err != unix.EAGAIN {
			if err == unix.EINTR {
				return Frame{}, ErrNoFrame
			}
			return Frame{}, fmt.Errorf("v4l2: DQBUF: %v", err)
		}

		pfd := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pfd, -1); err != nil {
			if err == unix.EINTR {
				return Frame{}, ErrNoFrame
			}
			return Frame{}, fmt.Errorf("v4l2: poll: %v", err)
		}
	}
}

// Release returns a frame's buffer to kernel ownership. Must be
// called exactly once per successful NextFrame.
func (d *Device) Release(f Frame) error {
	if err := d.pool.release(f.Slot); err != nil {
		return err
	}
	buf := v4l2Buffer{
		typ:    bufTypeVideoCapture,
		memory: memoryMmap,
		index:  uint32(f.Slot),
	}
	if err := d.ioctl(vidiocQbuf, unsafe.Pointer(&buf)); err != nil {
		return fmt.Errorf("v4l2: QBUF %d: %v", f.Slot, err)
	}
	return nil
}

// Close disables streaming, unmaps the buffer pool and releases the
// device.
func (d *Device) Close() error {
	var firstErr error
	if d.streaming {
		typ := int32(bufTypeVideoCapture)
		if err := d.ioctl(vidiocStreamoff, unsafe.Pointer(&typ)); err != nil {
			firstErr = fmt.Errorf("v4l2: STREAMOFF: %v", err)
		}
		d.unmapAll(d.mmaps)
		d.mmaps = nil
		d.streaming = false
	}
	if err := d.closeFD(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (d *Device) ioctl(req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req),
		uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) unmapAll(mmaps [][]byte) {
	for _, m := range mmaps {
		if m != nil {
			unix.Munmap(m)
		}
	}
}

func (d *Device) closeFD() error {
	if d.fd == -1 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
