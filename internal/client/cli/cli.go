// Package cli реализует команды клиента bookvault поверх cobra.
package cli

import (
	"github.com/iudanet/bookvault/internal/client/iocli"
	"github.com/iudanet/bookvault/internal/client/library"
)

// Cli выполняет команды над сервисом библиотеки
type Cli struct {
	io             iocli.IO
	libraryService library.Service
}

func New(io iocli.IO, libraryService library.Service) *Cli {
	return &Cli{
		io:             io,
		libraryService: libraryService,
	}
}
