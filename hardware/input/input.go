// Package input merges event sources into single serialized stream.
package input

import (
	"fmt"
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
)

func Drain(ch <-chan types.InputEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

type Source interface {
	Read() (types.InputEvent, error)
	String() string
}

type EventFunc func(types.InputEvent)
type sub struct {
	name  string
	ch    chan<- types.InputEvent
	fun   EventFunc
	stop  <-chan struct{}
	types map[types.EventType]struct{}
}

func (s *sub) accepts(t types.EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Dispatch delivers every event to subscribers from single Run goroutine,
// so subscribers are called sequentially in emit order.
type Dispatch struct {
	Log  *log2.Log
	bus  chan types.InputEvent
	mu   sync.Mutex
	subs map[string]*sub
	stop <-chan struct{}
}

func NewDispatch(log *log2.Log, stop <-chan struct{}) *Dispatch {
	return &Dispatch{
		Log:  log,
		bus:  make(chan types.InputEvent),
		subs: make(map[string]*sub, 16),
		stop: stop,
	}
}

// SubscribeChan with no event types receives all events.
func (self *Dispatch) SubscribeChan(name string, substop <-chan struct{}, ts ...types.EventType) chan types.InputEvent {
	target := make(chan types.InputEvent)
	sub := &sub{
		name:  name,
		ch:    target,
		stop:  substop,
		types: typeSet(ts),
	}
	self.safeSubscribe(sub)
	return target
}

func (self *Dispatch) SubscribeFunc(name string, fun EventFunc, substop <-chan struct{}, ts ...types.EventType) {
	sub := &sub{
		name:  name,
		fun:   fun,
		stop:  substop,
		types: typeSet(ts),
	}
	self.safeSubscribe(sub)
}

func (self *Dispatch) Unsubscribe(name string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if sub, ok := self.subs[name]; ok {
		self.subClose(sub)
	} else {
		panic("code error input sub not found name=" + name)
	}
}

func (self *Dispatch) Run(sources []Source) {
	for _, source := range sources {
		go self.readSource(source)
	}

	for {
		select {
		case event := <-self.bus:
			handled := false
			self.mu.Lock()
			for _, sub := range self.subs {
				if !sub.accepts(event.Type) {
					continue
				}
				self.subFire(sub, event)
				handled = true
			}
			self.mu.Unlock()
			if !handled {
				self.Log.Errorf("input is not handled event=%s", event.String())
			}

		case <-self.stop:
			Drain(self.bus)
			return
		}
	}
}

// Emit blocks until Run accepts event or dispatch is stopped.
func (self *Dispatch) Emit(event types.InputEvent) {
	select {
	case self.bus <- event:
		self.Log.Debugf("input emit=%s", event.String())
	case <-self.stop:
		return
	}
}

func (self *Dispatch) subFire(sub *sub, event types.InputEvent) {
	select {
	case <-sub.stop:
		self.subClose(sub)
		return
	default:
	}

	if sub.ch == nil && sub.fun == nil {
		panic(fmt.Sprintf("input sub=%s ch=nil fun=nil", sub.name))
	}
	if sub.fun != nil {
		sub.fun(event)
	}
	if sub.ch != nil {
		select {
		case sub.ch <- event:
		case <-sub.stop:
			self.subClose(sub)
		}
	}
}

func (self *Dispatch) subClose(s *sub) {
	if s.ch != nil {
		close(s.ch)
	}
	delete(self.subs, s.name)
}

func (self *Dispatch) safeSubscribe(s *sub) {
	self.mu.Lock()
	if existing, ok := self.subs[s.name]; ok {
		select {
		case <-s.stop:
			panic("code error input subscribe already closed name=" + s.name)
		case <-existing.stop:
			self.subClose(existing)
		default:
			panic("code error input duplicate subscribe name=" + s.name)
		}
	}
	self.subs[s.name] = s
	self.mu.Unlock()
}

func (self *Dispatch) readSource(source Source) {
	tag := source.String()
	for {
		event, err := source.Read()
		if err != nil {
			if errors.Cause(err) == io.EOF {
				self.Log.Infof("input source=%s closed", tag)
				return
			}
			select {
			case <-self.stop:
				self.Log.Debugf("input source=%s stopped err=%v", tag, err)
				return
			default:
			}
			err = errors.Annotatef(err, "input source=%s", tag)
			self.Log.Fatal(errors.ErrorStack(err))
			return
		}
		self.Emit(event)
	}
}

func typeSet(ts []types.EventType) map[types.EventType]struct{} {
	if len(ts) == 0 {
		return nil
	}
	m := make(map[types.EventType]struct{}, len(ts))
	for _, t := range ts {
		m[t] = struct{}{}
	}
	return m
}
