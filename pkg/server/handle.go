package server

import (
	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/protocol"
)

// handle runs a decoded request. It is called on the hub goroutine, so
// replies and patches are queued in the order the store produced them.
func (c *conn) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeSubscribe:
		c.subscribe(msg)
	case protocol.TypeUnsubscribe:
		c.unsubscribe(msg)
	case protocol.TypeChange, protocol.TypeSend, protocol.TypeAccess:
		c.call(msg)
	}
}

func (c *conn) subscribe(msg *protocol.Message) {
	if old, ok := c.subs[msg.Sub]; ok {
		c.drop(old)
	}

	sub := &subscription{id: msg.Sub, conn: c}
	initial, err := c.srv.store.OpenState(msg.Module, msg.Query, sub)
	if err != nil {
		c.enqueue(protocol.Error(msg, err, false))
		return
	}
	module, err := c.srv.store.Module(msg.Module)
	if err != nil {
		c.enqueue(protocol.Error(msg, err, false))
		return
	}
	sub.module = module
	sub.initial = initial

	module.Mount(sub)
	listener, _ := module.ListenerID(sub)
	c.subs[msg.Sub] = sub
	if m := c.srv.config.Metrics; m != nil {
		m.SubscriptionAdded()
	}

	c.enqueue(protocol.Snapshot(msg, listener, sub.initial))
	sub.ready = true
	sub.initial = nil
}

func (c *conn) unsubscribe(msg *protocol.Message) {
	sub, ok := c.subs[msg.Sub]
	if !ok {
		c.protocolError(msg, errors.New("H063").WithDetailf("Subscription %q is not active.", msg.Sub))
		return
	}
	c.drop(sub)
	c.enqueue(protocol.Result(msg, nil))
}

// drop unmounts and forgets a subscription.
func (c *conn) drop(sub *subscription) {
	sub.module.Unmount(sub)
	sub.module.Release(sub)
	delete(c.subs, sub.id)
	if m := c.srv.config.Metrics; m != nil {
		m.SubscriptionRemoved()
	}
}

func (c *conn) call(msg *protocol.Message) {
	module, err := c.srv.store.Module(msg.Module)
	if err != nil {
		c.enqueue(protocol.Error(msg, err, false))
		return
	}

	var res any
	switch msg.Type {
	case protocol.TypeChange:
		res, err = module.ChangeContext(c.ctx, msg.Name, msg.Payload)
	case protocol.TypeSend:
		res, err = module.SendContext(c.ctx, msg.Name, msg.Payload)
	case protocol.TypeAccess:
		res, err = module.AccessContext(c.ctx, msg.Name)
	}
	if err != nil {
		c.enqueue(protocol.Error(msg, err, false))
		return
	}
	c.enqueue(protocol.Result(msg, wireValue(res)))
}

// wireValue unwraps observable objects so results encode as plain JSON.
func wireValue(v any) any {
	if o, ok := v.(*observe.Object); ok {
		return o.Snapshot()
	}
	return v
}
