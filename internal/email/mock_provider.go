package email

import "sync"

// MockProvider сохраняет письма в памяти, используется в тестах
// и при пустой SMTP конфигурации
type MockProvider struct {
	mu   sync.Mutex
	sent []Message
	// Codes хранит последний отправленный код по адресу
	codes map[string]string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{codes: make(map[string]string)}
}

func (p *MockProvider) Send(msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *msg)
	return nil
}

func (p *MockProvider) SendVerificationCode(to, code string) error {
	p.mu.Lock()
	p.codes[to] = code
	p.mu.Unlock()
	return p.Send(&Message{To: []string{to}, Subject: "Код подтверждения", Body: code})
}

func (p *MockProvider) Validate() error { return nil }

// Sent возвращает копию отправленных сообщений
func (p *MockProvider) Sent() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.sent))
	copy(out, p.sent)
	return out
}

// LastCode возвращает последний код, отправленный на адрес
func (p *MockProvider) LastCode(to string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.codes[to]
}
