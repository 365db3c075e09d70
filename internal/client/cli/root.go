package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/bookvault/internal/client/config"
	"github.com/iudanet/bookvault/internal/client/iocli"
)

// annotationNoStack помечает команды, которым не нужны хранилища и сервер
const annotationNoStack = "bookvault/no-stack"

// BuildInfo сведения о сборке, задаются через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// App связывает конфигурацию, стек и команды одного запуска
type App struct {
	io        iocli.IO
	stderr    io.Writer
	open      Opener
	lookupEnv func(string) (string, bool)
	cfg       *config.Config
	stack     *Stack
	cli       *Cli
	build     BuildInfo
}

// AppOption настраивает App
type AppOption func(*App)

// WithOpener подменяет сборку стека (в тестах)
func WithOpener(open Opener) AppOption {
	return func(a *App) { a.open = open }
}

// WithStderr задает поток для логов
func WithStderr(w io.Writer) AppOption {
	return func(a *App) { a.stderr = w }
}

// WithEnv подменяет чтение переменных окружения
func WithEnv(lookup func(string) (string, bool)) AppOption {
	return func(a *App) { a.lookupEnv = lookup }
}

// WithBuildInfo задает версию для команды version
func WithBuildInfo(info BuildInfo) AppOption {
	return func(a *App) { a.build = info }
}

func NewApp(io iocli.IO, opts ...AppOption) *App {
	a := &App{
		io:        io,
		stderr:    os.Stderr,
		open:      OpenStack,
		lookupEnv: os.LookupEnv,
		build:     BuildInfo{Version: "dev", BuildDate: "unknown", GitCommit: "unknown"},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run разбирает аргументы и выполняет команду.
// Открытый стек закрывается после команды даже при ошибке.
func (a *App) Run(ctx context.Context, args []string) (err error) {
	a.cfg = config.Default()
	if err := a.cfg.ApplyEnv(a.lookupEnv); err != nil {
		return err
	}

	root := a.newRootCmd()
	root.SetArgs(args)

	defer func() {
		if a.stack == nil {
			return
		}
		if closeErr := a.stack.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		a.stack = nil
	}()

	return root.ExecuteContext(ctx)
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookvault",
		Short: "BookVault client with optimistic updates",
		Long: `bookvault manages the BookVault library over GraphQL.

Changes are applied to the local view immediately and reconciled with the
server response; failed changes are rolled back and recorded in the journal.
The last confirmed book list is kept locally and shown when the server is
unreachable.

Environment variables with the BOOKVAULT_ prefix set defaults for the flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.openStack,
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.io)
	root.SetErr(a.stderr)
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		a.newListCmd(),
		a.newAddCmd(),
		a.newDeleteCmd(),
		a.newHistoryCmd(),
		a.newCacheCmd(),
		a.newVersionCmd(),
	)

	return root
}

func (a *App) openStack(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationNoStack] == "true" || cmd.Name() == "help" {
		return nil
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(a.stderr, a.cfg.Verbose)

	stack, err := a.open(cmd.Context(), a.cfg, logger)
	if err != nil {
		return err
	}
	a.stack = stack
	a.cli = New(a.io, stack.Service)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
