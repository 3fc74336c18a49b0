package fsm

import (
	"sync"
	"time"
)

// Manager хранит активные формы по идентификатору чата.
// Доступ защищён мьютексом, формы старше TTL считаются отсутствующими
// и удаляются при обращении.
type Manager struct {
	mu    sync.Mutex
	forms map[int64]*Form
	ttl   time.Duration
}

// NewManager создает новый Manager с заданным временем жизни форм.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		forms: make(map[int64]*Form),
		ttl:   ttl,
	}
}

// Get возвращает активную форму чата или nil, если её нет
// или она истекла. Expired сообщает, была ли форма выброшена по TTL.
func (m *Manager) Get(chatID int64) (form *Form, expired bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.forms[chatID]
	if !ok {
		return nil, false
	}
	if time.Since(f.UpdatedAt) > m.ttl {
		delete(m.forms, chatID)
		return nil, true
	}
	f.UpdatedAt = time.Now()
	return f, false
}

// Start создает форму и привязывает её к чату, затирая прежнюю.
func (m *Manager) Start(chatID int64, flow Flow, step Step) *Form {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := &Form{
		Flow:      flow,
		Step:      step,
		UpdatedAt: time.Now(),
	}
	m.forms[chatID] = f
	return f
}

// Delete снимает форму с чата. Отмена формы — это Delete:
// черновик отбрасывается, записи в хранилище не происходят.
func (m *Manager) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.forms, chatID)
}

// Len возвращает количество активных форм.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.forms)
}
