package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(msg *Message) error

	// SendVerificationCode отправляет код подтверждения на адрес
	SendVerificationCode(to, code string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// Message представляет структуру email сообщения
type Message struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}
