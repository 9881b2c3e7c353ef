// Package cli implements the interactive register, login and lookup loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

//nolint:gochecknoglobals
var (
	// test seams for golang.org/x/term
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

const (
	choiceRegister = "1"
	choiceLogin    = "2"
	choiceExit     = "3"

	backCommand = "back"
)

// Authenticator registers and authenticates users.
type Authenticator interface {
	Register(ctx context.Context, username, password string) bool
	Login(ctx context.Context, username, password string) (int64, error)
}

// WeatherLookup fetches a summary and records it in the user's history.
type WeatherLookup interface {
	Lookup(ctx context.Context, userID int64, city string) string
}

// App is an interactive session on a pair of streams.
type App struct {
	auth    Authenticator
	weather WeatherLookup
	in      *bufio.Reader
	out     io.Writer
	log     logging.Logger

	// readSecret reads a password without echo; nil reads a plain line.
	readSecret func() ([]byte, error)

	// reads are handed to a single goroutine so a prompt can give up on ctx
	reads   chan func() readResult
	results chan readResult
	pending bool
}

type readResult struct {
	text string
	err  error
}

// New creates an App reading from in and writing to out.
// Passwords are read without echo when in is a terminal.
func New(auth Authenticator, weather WeatherLookup, in io.Reader, out io.Writer) *App {
	app := &App{
		auth:    auth,
		weather: weather,
		in:      bufio.NewReader(in),
		out:     out,
		log:     logging.GetLogger("cli"),
	}

	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		app.readSecret = func() ([]byte, error) { return readPassword(fd) }
	}

	return app
}

// Run drives the menu until the user exits, input ends or ctx is done.
// A prompt waiting for input returns as soon as ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.startReader()
	defer close(a.reads)

	a.printf("Welcome to WeatherApp CLI\n")

	for ctx.Err() == nil {
		choice, err := a.prompt(ctx, "\n1. Register\n2. Login\n3. Exit\nChoice: ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case choiceExit:
			return nil
		case choiceRegister, choiceLogin:
		default:
			a.printf("Invalid choice.\n")

			continue
		}

		username, password, err := a.credentials(ctx)
		if err != nil {
			return ignoreEOF(err)
		}

		if choice == choiceRegister {
			if a.auth.Register(ctx, username, password) {
				a.printf("Registration successful.\n")
			} else {
				a.printf("Registration failed.\n")
			}

			continue
		}

		userID, err := a.auth.Login(ctx, username, password)
		if err != nil {
			a.printf("Login failed.\n")

			continue
		}

		a.printf("Login successful.\n")

		if err := a.lookupLoop(ctx, userID); err != nil {
			return ignoreEOF(err)
		}
	}

	return ctx.Err() //nolint:wrapcheck
}

func (a *App) lookupLoop(ctx context.Context, userID int64) error {
	for ctx.Err() == nil {
		city, err := a.prompt(ctx, "\nEnter city (or 'back'): ")
		if err != nil {
			return err
		}

		switch city {
		case backCommand:
			return nil
		case "":
			continue
		}

		a.printf("%s\n", a.weather.Lookup(ctx, userID, city))
	}

	return ctx.Err() //nolint:wrapcheck
}

func (a *App) credentials(ctx context.Context) (string, string, error) {
	username, err := a.prompt(ctx, "Username: ")
	if err != nil {
		return "", "", err
	}

	if a.readSecret == nil {
		password, err := a.prompt(ctx, "Password: ")

		return username, password, err
	}

	a.printf("Password: ")

	secret, err := a.read(ctx, func() readResult {
		secret, err := a.readSecret()

		return readResult{text: string(secret), err: err}
	})
	a.printf("\n")

	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}

	return username, secret, nil
}

// prompt prints text and reads one trimmed line. A final line without newline is returned.
func (a *App) prompt(ctx context.Context, text string) (string, error) {
	a.printf("%s", text)

	return a.read(ctx, a.readLine)
}

func (a *App) readLine() readResult {
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return readResult{text: strings.TrimSpace(line)}
		}

		return readResult{err: fmt.Errorf("read input: %w", err)}
	}

	return readResult{text: strings.TrimSpace(line)}
}

// startReader runs the goroutine performing reads one at a time, on demand.
// Reads never overlap, so a password read never races a line read on the same terminal.
func (a *App) startReader() {
	a.reads = make(chan func() readResult)
	a.results = make(chan readResult, 1)
	a.pending = false

	reads, results := a.reads, a.results

	go func() {
		for read := range reads {
			results <- read()
		}
	}()
}

// read runs fn on the reader goroutine and waits for its result or ctx.
// A read abandoned on ctx stays pending and answers the next call.
func (a *App) read(ctx context.Context, fn func() readResult) (string, error) {
	if !a.pending {
		a.reads <- fn
		a.pending = true
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err() //nolint:wrapcheck
	case res := <-a.results:
		a.pending = false

		return res.text, res.err
	}
}

func (a *App) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		a.log.Warn("write output failed", "error", err)
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
