// Package guichan implements engine.GuiTransport as an in-process channel
// pair, grounded on the teacher's Manager.UpdateChan non-blocking-send
// idiom. It is the transport used by guitea (same process) and by tests
// driving ControlPlane without a real IPC layer.
package guichan

import "mcksamplerd/engine"

// Transport is a buffered, non-blocking channel-based engine.GuiTransport.
// Send drops a notification rather than blocking the caller if the
// channel is full, matching the teacher's notifyUpdate.
type Transport struct {
	out    chan engine.GuiMessage // engine -> GUI (Send)
	in     chan engine.GuiMessage // GUI -> engine (Messages)
	closed chan struct{}
}

// NewTransport returns a Transport with the given channel capacities.
func NewTransport(outCapacity, inCapacity int) *Transport {
	return &Transport{
		out:    make(chan engine.GuiMessage, outCapacity),
		in:     make(chan engine.GuiMessage, inCapacity),
		closed: make(chan struct{}),
	}
}

// Send delivers an engine-originated notification to the GUI side,
// dropping it if the buffer is full rather than blocking the RT-adjacent
// report thread.
func (t *Transport) Send(section, msgType string, payload any) error {
	msg := engine.GuiMessage{Section: section, MsgType: msgType, Payload: payload}
	select {
	case t.out <- msg:
	default:
	}
	return nil
}

// Messages returns the channel of operator-issued commands the control
// plane reads from.
func (t *Transport) Messages() <-chan engine.GuiMessage {
	return t.in
}

// Out returns the channel of engine-originated notifications, for the GUI
// side (guitea's Model) to listen on.
func (t *Transport) Out() <-chan engine.GuiMessage {
	return t.out
}

// Post delivers an operator-issued command from the GUI side into
// Messages(), blocking only if the in-buffer is full.
func (t *Transport) Post(msg engine.GuiMessage) {
	select {
	case t.in <- msg:
	case <-t.closed:
	}
}

// Close stops any further Post calls from blocking; safe to call once.
func (t *Transport) Close() error {
	close(t.closed)
	return nil
}
