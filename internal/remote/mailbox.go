package remote

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type request struct {
	fn   func()
	done chan struct{}
}

type mailboxHost struct {
	rank int
	reqs chan request
	quit <-chan struct{}
}

func (h *mailboxHost) Rank() int {
	return h.rank
}

// Do sends fn to the owning rank's server and waits for the reply. The request
// channel is unbuffered, so a request that was handed over is always served
// and fn never runs after Do has returned.
func (h *mailboxHost) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	select {
	case h.reqs <- request{fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.quit:
		return ErrClosed
	}

	<-done
	return nil
}

func (h *mailboxHost) serve() error {
	var served uint64
	for {
		select {
		case req := <-h.reqs:
			req.fn()
			close(req.done)
			served++
		case <-h.quit:
			log.WithField("rank", h.rank).Debugf("mailbox served %d requests", served)
			return nil
		}
	}
}

// Mailbox is a message passing fabric: memory of a host is only ever touched
// by that host's server goroutine, other ranks send it requests.
type Mailbox struct {
	hosts []*mailboxHost
	quit  chan struct{}
	once  sync.Once
	wg    errgroup.Group
}

// NewMailbox starts one server per rank.
func NewMailbox(n int) *Mailbox {
	m := &Mailbox{
		hosts: make([]*mailboxHost, n),
		quit:  make(chan struct{}),
	}

	for i := range m.hosts {
		h := &mailboxHost{
			rank: i,
			reqs: make(chan request),
			quit: m.quit,
		}
		m.hosts[i] = h
		m.wg.Go(h.serve)
	}

	return m
}

func (m *Mailbox) Size() int {
	return len(m.hosts)
}

func (m *Mailbox) Host(rank int) Host {
	return m.hosts[rank]
}

// Close stops all servers. Later calls to Do return ErrClosed.
func (m *Mailbox) Close() error {
	m.once.Do(func() {
		close(m.quit)
	})
	return m.wg.Wait()
}
