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

package v4l2

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ircam-tools/ircam-viewer/camera"
)

// LookupDescriptor probes the device at path and returns the first
// supported camera descriptor whose format, frame size and frame
// interval the device advertises, or nil if none match.
func LookupDescriptor(path string) *camera.Descriptor {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil
	}
	defer unix.Close(fd)

	for i := range camera.Supported {
		desc := &camera.Supported[i]
		if matchesDesc(fd, desc) {
			return desc
		}
	}
	return nil
}

func matchesDesc(fd int, desc *camera.Descriptor) bool {
	for i := uint32(0); ; i++ {
		fmtdesc := v4l2Fmtdesc{
			typ:   bufTypeVideoCapture,
			index: i,
		}
		if ioctlFD(fd, vidiocEnumFmt, unsafe.Pointer(&fmtdesc)) != nil {
			return false
		}
		if fmtdesc.pixelformat != desc.PixelFormat {
			continue
		}
		if matchesSize(fd, desc, fmtdesc.pixelformat) {
			return true
		}
	}
}

func matchesSize(fd int, desc *camera.Descriptor, pixfmt uint32) bool {
	for i := uint32(0); ; i++ {
		size := v4l2Frmsizeenum{
			pixelFormat: pixfmt,
			index:       i,
		}
		if ioctlFD(fd, vidiocEnumFramesizes, unsafe.Pointer(&size)) != nil {
			return false
		}
		// Stepwise and continuous ranges are not used by the
		// supported cameras; only discrete sizes are matched.
		if size.typ != frmsizeTypeDiscrete {
			continue
		}
		if size.discrete.width != uint32(desc.CaptureWidth) ||
			size.discrete.height != uint32(desc.CaptureHeight) {
			continue
		}
		if matchesInterval(fd, desc, pixfmt, size.discrete) {
			return true
		}
	}
}

func matchesInterval(fd int, desc *camera.Descriptor, pixfmt uint32,
	size v4l2FrmsizeDiscrete) bool {
	for i := uint32(0); ; i++ {
		ival := v4l2Frmivalenum{
			pixelFormat: pixfmt,
			width:       size.width,
			height:      size.height,
			index:       i,
		}
		if ioctlFD(fd, vidiocEnumFrameintervals, unsafe.Pointer(&ival)) != nil {
			return false
		}
		if ival.typ != frmivalTypeDiscrete {
			continue
		}
		if ival.discrete.numerator == 1 && ival.discrete.denominator == desc.FPS {
			return true
		}
	}
}

func ioctlFD(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req),
		uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
