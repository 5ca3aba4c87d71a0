package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/service"
)

func (s *Shell) register(ctx context.Context) error {
	username := s.prompt("Username: ")
	if len(username) < minUsernameLen {
		return fmt.Errorf("username must be at least %d characters", minUsernameLen)
	}
	password := s.prompt("Password: ")
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if confirm := s.prompt("Confirm password: "); confirm != password {
		return fmt.Errorf("passwords do not match")
	}
	if err := s.users.Register(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "User %s registered with read-only access\n", username)
	return nil
}

func (s *Shell) login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		username = s.prompt("Username: ")
	}
	password := s.prompt("Password: ")
	if err := s.sess.Login(ctx, s.users, username, password); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in as %s (%s)\n", username, s.sess.CurrentUser().Permission)
	return nil
}

func (s *Shell) whoami() error {
	u := s.sess.CurrentUser()
	if u == nil {
		fmt.Fprintln(s.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(s.out, "%s (%s)\n", u.Username, u.Permission)
	var allowed []string
	for _, op := range permission.Operations() {
		if permission.Allowed(u, op) {
			allowed = append(allowed, op.String())
		}
	}
	fmt.Fprintf(s.out, "Allowed: %s\n", strings.Join(allowed, ", "))
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	tasks, err := s.board.AllTasks(ctx, s.sess)
	if err != nil {
		return err
	}
	renderBoard(s.out, tasks)
	return nil
}

func (s *Shell) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	task, err := s.board.TaskByID(ctx, s.sess, id)
	if err != nil {
		return err
	}
	renderTask(s.out, task)
	return nil
}

func (s *Shell) add(ctx context.Context) error {
	title := s.prompt("Title: ")
	description := s.prompt("Description: ")
	status := models.StatusBacklog
	if name := strings.ToUpper(s.prompt("Status [BACKLOG]: ")); name != "" {
		var err error
		if status, err = models.ParseStatus(name); err != nil {
			return err
		}
	}
	task, err := s.board.CreateTask(ctx, s.sess, title, description, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task %s created in %s\n", shortID(task.ID), task.Status)
	return nil
}

func (s *Shell) edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edit <id>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	current, err := s.board.TaskByID(ctx, s.sess, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Leave a field empty to keep it.")
	var upd service.TaskUpdate
	if v := s.prompt(fmt.Sprintf("Title [%s]: ", current.Title)); v != "" {
		upd.Title = &v
	}
	if v := s.prompt("Description: "); v != "" {
		upd.Description = &v
	}
	if v := s.prompt("Issue description: "); v != "" {
		upd.IssueDescription = &v
	}
	if _, err := s.board.UpdateTaskFields(ctx, s.sess, id, upd); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Task updated")
	return nil
}

func (s *Shell) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <id>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	if err := s.board.DeleteTask(ctx, s.sess, id); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Task deleted")
	return nil
}

func (s *Shell) move(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("move <id> <STATUS>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	status, err := models.ParseStatus(strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	if _, err := s.board.MoveToStatusEnd(ctx, s.sess, id, status); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task moved to %s\n", status)
	return nil
}

func (s *Shell) drop(ctx context.Context, args []string) error {
	if len(args) != 3 || (args[1] != "before" && args[1] != "after") {
		return usageError("drop <id> <before|after> <id>")
	}
	dragged, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	target, err := s.resolveID(ctx, args[2])
	if err != nil {
		return err
	}
	task, err := s.board.MoveRelativeTo(ctx, s.sess, dragged, target, args[1] == "before")
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task placed %s %s in %s\n", args[1], shortID(target), task.Status)
	return nil
}

func (s *Shell) label(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("label <id> <label>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	task, err := s.board.AddLabel(ctx, s.sess, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Labels: %s\n", strings.Join(task.Labels, ", "))
	return nil
}

func (s *Shell) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("comment <id> <text>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := s.board.AddComment(ctx, s.sess, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Comment added at %s\n", c.Timestamp.Display())
	return nil
}

func (s *Shell) color(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("color <id> <COLOR>")
	}
	id, err := s.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	color, err := models.ParseColor(strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	if _, err := s.board.SetBackgroundColor(ctx, s.sess, id, color); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Color set to %s (%s)\n", color, color.Hex())
	return nil
}

func (s *Shell) listUsers(ctx context.Context) error {
	users, err := s.users.ListUsers(ctx, s.sess)
	if err != nil {
		return err
	}
	renderUsers(s.out, users)
	return nil
}

func (s *Shell) perm(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("perm <username> <READ_ONLY|PERMITTED|ADMIN>")
	}
	perm, err := models.ParsePermission(strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserPermission(ctx, s.sess, args[0], perm); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s is now %s\n", args[0], perm)
	return nil
}

// resolveID expands a unique id prefix to the full task id.
func (s *Shell) resolveID(ctx context.Context, prefix string) (string, error) {
	tasks, err := s.board.AllTasks(ctx, s.sess)
	if err != nil {
		return "", err
	}
	var match string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: task %q", service.ErrNotFound, prefix)
	}
	return match, nil
}
