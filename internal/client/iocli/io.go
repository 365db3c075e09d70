package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод/вывод командной строки
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	// Confirm задает вопрос да/нет. Пустой ответ означает "нет".
	Confirm(prompt string) (bool, error)
	// IsInteractive сообщает, подключен ли ввод к терминалу
	IsInteractive() bool
	Write(p []byte) (n int, err error)
}
