//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

// setReadTimeout makes reads on fd return after deciseconds with whatever
// input is available, possibly none.
func setReadTimeout(fd int, deciseconds uint8) error {
	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = deciseconds
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, tio)
}
