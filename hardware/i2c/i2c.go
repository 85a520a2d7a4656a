// Package i2c is addressed bus transport for front panel board.
package i2c

// Thanks to
// https://github.com/kidoman/embd and https://bitbucket.org/gmcbay/i2c

import (
	"os"
	"sync"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const (
	// as defined in /usr/include/linux/i2c-dev.h
	I2C_SLAVE = 0x0703 /* Use this slave address */
	I2C_RDWR  = 0x0707 /* Combined R/W transfer (one STOP only) */

	// i2c_msg flags
	// as defined in /usr/include/linux/i2c.h
	I2C_M_RD = 0x0001 /* read data, from slave to master */
)

type i2c_msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type i2c_rdwr_ioctl_data struct {
	msgs uintptr
	nmsg uint32
}

// Bus performs combined write-then-read transaction with one STOP.
type Bus interface {
	Tx(addr byte, bw []byte, br []byte) error
	Close() error
}

type ioctlBus struct {
	path        string
	file        *os.File
	lk          sync.Mutex
	initialized bool
}

// NewIoctlBus opens /dev/i2c-N lazily on first Tx.
func NewIoctlBus(path string) Bus {
	return &ioctlBus{path: path}
}

func (b *ioctlBus) init() error {
	if b.initialized {
		return nil
	}

	var err error
	if b.file, err = os.OpenFile(b.path, os.O_RDWR, os.ModeExclusive); err != nil {
		return errors.Annotatef(err, "i2c open %s", b.path)
	}
	b.initialized = true

	return nil
}

func (b *ioctlBus) Tx(addr byte, bw []byte, br []byte) error {
	b.lk.Lock()
	defer b.lk.Unlock()

	if err := b.init(); err != nil {
		return err
	}

	nmsg := uint32(0)
	msgs := [2]i2c_msg{}
	if len(bw) != 0 {
		msgs[nmsg] = i2c_msg{
			addr: uint16(addr), flags: 0,
			buf: uintptr(unsafe.Pointer(&bw[0])), len: uint16(len(bw)),
		}
		nmsg++
	}
	if len(br) != 0 {
		msgs[nmsg] = i2c_msg{
			addr: uint16(addr), flags: I2C_M_RD,
			buf: uintptr(unsafe.Pointer(&br[0])), len: uint16(len(br)),
		}
		nmsg++
	}
	if nmsg == 0 {
		return errors.Errorf("i2c.Tx both bw=br=nil nothing to do")
	}

	rdwr_data := i2c_rdwr_ioctl_data{
		msgs: uintptr(unsafe.Pointer(&msgs[0])),
		nmsg: nmsg,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		b.file.Fd(), uintptr(I2C_RDWR), uintptr(unsafe.Pointer(&rdwr_data)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (b *ioctlBus) Close() error {
	b.lk.Lock()
	defer b.lk.Unlock()

	if !b.initialized {
		return nil
	}
	b.initialized = false
	return b.file.Close()
}
