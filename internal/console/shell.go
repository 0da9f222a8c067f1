package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/cloud-classroom/internal/app"
	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

var readPasswordFunc = term.ReadPassword // mockable

var errExit = errors.New("exit")

// Shell is the interactive classroom console. It runs one command at a time
// against a single App on behalf of the logged-in user.
type Shell struct {
	app     *app.App
	in      *bufio.Reader
	out     io.Writer
	logger  *zap.Logger
	session *models.Session
	// terminalFD is the input file descriptor when it is a terminal, or -1.
	terminalFD int
}

// New builds a shell reading commands from in and writing output to out.
func New(a *app.App, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		app:        a,
		in:         bufio.NewReader(in),
		out:        out,
		logger:     a.Logger.Named("console"),
		terminalFD: -1,
	}
}

// WithTerminal hides password input by reading it from fd when fd is a terminal.
func (s *Shell) WithTerminal(fd int) *Shell {
	if term.IsTerminal(fd) {
		s.terminalFD = fd
	}
	return s
}

// Run executes commands until exit, end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to the cloud classroom. Type help for commands.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, s.prompt())
		line, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %s\n", appErrors.FromError(err).Message)
		}
	}
}

// Execute runs one command line. It returns errExit for the exit command.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if len(args) == 0 {
		return nil
	}

	verb, args := args[0], args[1:]
	cmd, ok := lookup(verb)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown command %q, type help", verb))
	}

	start := time.Now()
	err = s.dispatch(ctx, cmd, args)
	if !errors.Is(err, errExit) {
		s.app.Metrics.ObserveCommand(cmd.name, err, time.Since(start))
	}
	if err != nil && !errors.Is(err, errExit) {
		s.logger.Debug("command failed", zap.String("command", cmd.name), zap.Error(err))
	}
	return err
}

func (s *Shell) dispatch(ctx context.Context, cmd *command, args []string) error {
	if cmd.needsLogin && s.session == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "please login first")
	}
	if len(args) < cmd.minArgs {
		return appErrors.Clone(appErrors.ErrValidation, "usage: "+cmd.usage)
	}
	return cmd.run(ctx, s, args)
}

func (s *Shell) prompt() string {
	if s.session == nil {
		return "\n[guest]> "
	}
	return fmt.Sprintf("\n[%s:%s]> ", s.session.Username, s.session.Role)
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) readPassword() (string, error) {
	fmt.Fprint(s.out, "Password: ")
	if s.terminalFD >= 0 {
		pwd, err := readPasswordFunc(s.terminalFD)
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return string(pwd), nil
	}
	line, err := s.readLine()
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrInvalidCredentials, "no password given")
	}
	return line, nil
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}
