// Package client implements the interactive board shell. It talks to the
// services in-process and keeps one login session for its lifetime.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/service"
	"github.com/atinyakov/GophBoard/internal/session"
)

// UserService is the account API used by the shell.
type UserService interface {
	Load(ctx context.Context) ([]models.User, error)
	Register(ctx context.Context, username, password string) error
	ListUsers(ctx context.Context, sess *session.Session) ([]models.User, error)
	UpdateUserPermission(ctx context.Context, sess *session.Session, target string, perm models.Permission) error
}

// BoardService is the task API used by the shell.
type BoardService interface {
	AllTasks(ctx context.Context, sess *session.Session) ([]*models.Task, error)
	TaskByID(ctx context.Context, sess *session.Session, id string) (*models.Task, error)
	CreateTask(ctx context.Context, sess *session.Session, title, description string, status models.Status) (*models.Task, error)
	UpdateTaskFields(ctx context.Context, sess *session.Session, id string, upd service.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, sess *session.Session, id string) error
	MoveToStatusEnd(ctx context.Context, sess *session.Session, id string, target models.Status) (*models.Task, error)
	MoveRelativeTo(ctx context.Context, sess *session.Session, draggedID, targetID string, placeBefore bool) (*models.Task, error)
	AddLabel(ctx context.Context, sess *session.Session, id, label string) (*models.Task, error)
	AddComment(ctx context.Context, sess *session.Session, id, text string) (*models.Comment, error)
	SetBackgroundColor(ctx context.Context, sess *session.Session, id string, color models.BackgroundColor) (*models.Task, error)
}

const (
	minUsernameLen = 3
	minPasswordLen = 4
)

const helpText = `Available commands:
  help                          show this help
  register                      create an account
  login [username]              log in
  logout                        log out
  whoami                        show the current user and what they may do
  list                          show the board
  show <id>                     show one task
  add                           create a task
  edit <id>                     edit title, description and issue details
  delete <id>                   delete a task
  move <id> <STATUS>            move a task to the bottom of a column
  drop <id> <before|after> <id> place a task next to another one
  label <id> <label>            add a label
  comment <id> <text>           add a comment
  color <id> <COLOR>            change the card color
  users                         list users (admin)
  perm <username> <PERMISSION>  change a user's role (admin)
  exit                          quit
Task ids may be shortened to any unique prefix.`

// Shell is the read-eval-print loop of the board client.
type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	users UserService
	board BoardService
	sess  *session.Session
}

// NewShell creates a Shell reading commands from in and writing to out.
func NewShell(in io.Reader, out io.Writer, users UserService, board BoardService) *Shell {
	return &Shell{
		in:    bufio.NewScanner(in),
		out:   out,
		users: users,
		board: board,
		sess:  session.New(),
	}
}

// Session returns the shell's login session.
func (s *Shell) Session() *session.Session {
	return s.sess
}

// Run processes commands until "exit", end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, s.promptLabel())
		if !s.in.Scan() {
			return s.in.Err()
		}
		args := strings.Fields(s.in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.dispatch(ctx, args[0], args[1:]); err != nil {
			s.printError(err)
		}
	}
}

func (s *Shell) promptLabel() string {
	if u := s.sess.CurrentUser(); u != nil {
		return "gophboard(" + u.Username + ")> "
	}
	return "gophboard> "
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "register":
		return s.register(ctx)
	case "login":
		return s.login(ctx, args)
	case "logout":
		s.sess.Logout()
		fmt.Fprintln(s.out, "Logged out")
		return nil
	case "whoami":
		return s.whoami()
	case "list":
		return s.list(ctx)
	case "show":
		return s.show(ctx, args)
	case "add":
		return s.add(ctx)
	case "edit":
		return s.edit(ctx, args)
	case "delete":
		return s.delete(ctx, args)
	case "move":
		return s.move(ctx, args)
	case "drop":
		return s.drop(ctx, args)
	case "label":
		return s.label(ctx, args)
	case "comment":
		return s.comment(ctx, args)
	case "color":
		return s.color(ctx, args)
	case "users":
		return s.listUsers(ctx)
	case "perm":
		return s.perm(ctx, args)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
		return nil
	}
}

// usageError is reported verbatim.
type usageError string

func (e usageError) Error() string { return "Usage: " + string(e) }

func (s *Shell) printError(err error) {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintln(s.out, usage.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		fmt.Fprintf(s.out, "Not allowed: %v\n", err)
	case errors.Is(err, service.ErrPersistence):
		fmt.Fprintf(s.out, "Change applied but not saved: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}
