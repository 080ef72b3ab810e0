// Package connectivity хранит признак доступности сети и рассылает
// переходы online/offline подписчикам.
package connectivity

import (
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Event переход состояния сети
type Event struct {
	Online bool
	At     time.Time
}

// Monitor источник истины о состоянии сети для оркестратора
type Monitor struct {
	mu     sync.Mutex
	log    *slog.Logger
	online bool
	subs   map[uint64]*Subscription
	nextID uint64
	now    func() time.Time
}

// NewMonitor создает монитор с начальным состоянием сети
func NewMonitor(online bool, log *slog.Logger) *Monitor {
	return &Monitor{
		log:    log.With("component", "connectivity"),
		online: online,
		subs:   make(map[uint64]*Subscription),
		now:    time.Now,
	}
}

// Online текущее состояние сети
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline фиксирует состояние сети. Подписчики получают событие только
// при реальном переходе. Возвращает true, если состояние изменилось.
func (m *Monitor) SetOnline(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return false
	}
	m.online = online

	ev := Event{Online: online, At: m.now()}
	for _, sub := range m.subs {
		sub.deliver(ev)
	}

	m.log.Info("Состояние сети изменилось", "online", online, "subscribers", len(m.subs))
	return true
}

// Subscribe регистрирует подписчика на переходы состояния сети
func (m *Monitor) Subscribe() *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	sub := &Subscription{
		id:      m.nextID,
		monitor: m,
		events:  make(chan Event, 1),
	}
	m.subs[sub.id] = sub
	return sub
}

// Subscribers число активных подписок
func (m *Monitor) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *Monitor) unsubscribe(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[sub.id]; !ok {
		return
	}
	delete(m.subs, sub.id)
	close(sub.events)
}

// Subscription подписка на переходы состояния сети
type Subscription struct {
	id      uint64
	monitor *Monitor
	events  chan Event
	once    sync.Once
}

// Events канал переходов. Закрывается после Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close освобождает подписку. Повторный вызов ничего не делает.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.monitor.unsubscribe(s)
	})
}

// deliver вызывается под блокировкой монитора. Медленный подписчик видит
// только последнее состояние.
func (s *Subscription) deliver(ev Event) {
	select {
	case s.events <- ev:
		return
	default:
	}
	select {
	case <-s.events:
	default:
	}
	s.events <- ev
}
