package frontpanel

import (
	"sync"
)

type MockWrite struct {
	Reg   byte
	Frame []byte
}

// MockConn records writes and serves queued button reads.
// Used by tests and dry run of cmd tools.
type MockConn struct {
	mu      sync.Mutex
	writes  []MockWrite
	buttons []byte
	// WriteErr is returned from every Write after FailAfter successful writes.
	WriteErr  error
	FailAfter int
	ReadErr   error
	OnWrite   func(MockWrite)
}

var _ Conn = &MockConn{} // compile-time interface test

func NewMockConn() *MockConn { return &MockConn{} }

func (self *MockConn) Write(reg byte, b []byte) error {
	self.mu.Lock()
	if self.WriteErr != nil && len(self.writes) >= self.FailAfter {
		err := self.WriteErr
		self.mu.Unlock()
		return err
	}
	w := MockWrite{Reg: reg, Frame: append([]byte(nil), b...)}
	self.writes = append(self.writes, w)
	fun := self.OnWrite
	self.mu.Unlock()

	if fun != nil {
		fun(w)
	}
	return nil
}

func (self *MockConn) Read(reg byte, b []byte) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.ReadErr != nil {
		return self.ReadErr
	}
	for i := range b {
		b[i] = 0
	}
	if len(self.buttons) > 0 && len(b) > 0 {
		b[0] = self.buttons[0]
		self.buttons = self.buttons[1:]
	}
	return nil
}

func (self *MockConn) PushButton(code byte) {
	self.mu.Lock()
	self.buttons = append(self.buttons, code)
	self.mu.Unlock()
}

func (self *MockConn) Writes() []MockWrite {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]MockWrite(nil), self.writes...)
}

// Frames returns written frames and forgets them.
func (self *MockConn) Frames() [][]byte {
	self.mu.Lock()
	defer self.mu.Unlock()
	fs := make([][]byte, len(self.writes))
	for i, w := range self.writes {
		fs[i] = w.Frame
	}
	self.writes = nil
	return fs
}

// Describe returns DescribeFrame of written frames and forgets them.
func (self *MockConn) Describe() []string {
	fs := self.Frames()
	ss := make([]string, len(fs))
	for i, f := range fs {
		ss[i] = DescribeFrame(f)
	}
	return ss
}
