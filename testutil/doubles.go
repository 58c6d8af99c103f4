package testutil

import (
	"CareClinic/messaging"
	"context"
	"sync"
)

var _ messaging.EventPublisher = (*Publisher)(nil)

// Publisher records every published event and its routing key.
type Publisher struct {
	mu     sync.Mutex
	Keys   []string
	Events []messaging.Event
}

func (p *Publisher) Publish(ctx context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, event.RoutingKey())
	p.Events = append(p.Events, event)
	return nil
}

func (p *Publisher) Close() error { return nil }

// Locker hands out in-process locks. Busy keys are reported as held by
// somebody else; Err makes every Lock call fail.
type Locker struct {
	mu    sync.Mutex
	held  map[string]bool
	Busy  map[string]bool
	Err   error
	Calls []string
}

func NewLocker() *Locker {
	return &Locker{held: map[string]bool{}, Busy: map[string]bool{}}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls = append(l.Calls, key)
	if l.Err != nil {
		return func() {}, false, l.Err
	}
	if l.Busy[key] || l.held[key] {
		return func() {}, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, true, nil
}

// Mailer keeps the last code sent to each address.
type Mailer struct {
	mu   sync.Mutex
	Sent map[string]string
	Err  error
}

func NewMailer() *Mailer {
	return &Mailer{Sent: map[string]string{}}
}

func (m *Mailer) SendResetCode(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent[email] = code
	return nil
}
