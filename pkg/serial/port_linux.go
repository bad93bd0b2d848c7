//go:build linux
// +build linux

package serial

import (
	"time"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// Open opens and configures the port in raw 8N1 mode.
func Open(conf Config) (*Port, error) {
	speed, ok := baudRates[conf.Baud]
	if !ok {
		return nil, &BaudError{Baud: conf.Baud}
	}
	fd, err := unix.Open(conf.Name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	p := &Port{name: conf.Name, fd: fd, invertRTS: conf.InvertRTS}
	if err = p.configure(speed); err != nil {
		unix.Close(fd)
		return nil, err
	}
	glog.V(1).Infof("serial %s opened at %d baud", conf.Name, conf.Baud)
	return p, nil
}

func (p *Port) configure(speed uint32) error {
	t, err := unix.IoctlGetTermios(p.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed, t.Ospeed = speed, speed
	t.Cc[unix.VMIN], t.Cc[unix.VTIME] = 0, 0
	if err = unix.IoctlSetTermios(p.fd, unix.TCSETS, t); err != nil {
		return err
	}
	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// Close implements io.Closer.
func (p *Port) Close() error {
	if p.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}

// Write implements link.Transport.
func (p *Port) Write(b []byte) (int, error) {
	var written int
	for written < len(b) {
		if p.fd < 0 {
			return written, ErrClosed
		}
		n, err := unix.Write(p.fd, b[written:])
		if err == unix.EAGAIN || err == unix.EINTR {
			if _, err = p.wait(unix.POLLOUT, time.Second); err != nil {
				return written, err
			}
			continue
		}
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// ReadByteTimeout implements link.Transport.
func (p *Port) ReadByteTimeout(timeout time.Duration) (byte, error) {
	return p.readByte(deadlineAfter(timeout))
}

// ReadUntil implements link.Transport. The timeout bounds the whole read.
func (p *Port) ReadUntil(marker byte, timeout time.Duration) ([]byte, error) {
	deadline := deadlineAfter(timeout)
	var out []byte
	for {
		b, err := p.readByte(deadline)
		if err != nil {
			return out, err
		}
		out = append(out, b)
		if b == marker {
			return out, nil
		}
	}
}

// Buffered implements link.Transport.
func (p *Port) Buffered() (int, error) {
	if p.fd < 0 {
		return 0, ErrClosed
	}
	return unix.IoctlGetInt(p.fd, unix.TIOCINQ)
}

// SetPower implements link.PowerControl by driving RTS.
func (p *Port) SetPower(on bool) error {
	if p.fd < 0 {
		return ErrClosed
	}
	req := uint(unix.TIOCMBIS)
	if on == p.invertRTS {
		req = unix.TIOCMBIC
	}
	glog.V(1).Infof("serial %s power %v", p.name, on)
	return unix.IoctlSetPointerInt(p.fd, req, unix.TIOCM_RTS)
}

func (p *Port) readByte(deadline time.Time) (byte, error) {
	var buf [1]byte
	for {
		if p.fd < 0 {
			return 0, ErrClosed
		}
		n, err := unix.Read(p.fd, buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil && err != unix.EAGAIN && err != unix.EINTR {
			return 0, err
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return 0, p.timeoutErr()
		}
		if ready, err := p.wait(unix.POLLIN, remain); err != nil {
			return 0, err
		} else if !ready {
			return 0, p.timeoutErr()
		}
	}
}

func (p *Port) wait(events int16, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(p.fd), Events: events}}
	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	for {
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		if n > 0 && fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 && fds[0].Revents&events == 0 {
			return false, ErrClosed
		}
		return n > 0, nil
	}
}
