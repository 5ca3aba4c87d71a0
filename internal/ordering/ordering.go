// Package ordering computes how the board's task list changes when cards are
// moved between or within columns.
//
// The task list is a single ordered sequence. It is kept bucket-sorted: all
// tasks of one status form a contiguous run and runs appear in status order.
// Every function here preserves that property when given a bucket-sorted
// list, and Normalize restores it for lists loaded from older data.
package ordering

import (
	"errors"
	"slices"
	"sort"

	"github.com/atinyakov/GophBoard/internal/models"
)

var (
	// ErrSelfDrop is returned when a task is dropped onto itself.
	ErrSelfDrop = errors.New("task cannot be moved relative to itself")
	// ErrTaskNotInList is returned when a referenced task is not part of the list.
	ErrTaskNotInList = errors.New("task is not in the list")
)

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []*models.Task, id string) int {
	return slices.IndexFunc(tasks, func(t *models.Task) bool { return t.ID == id })
}

// StatusEndIndex returns where a task with status s belongs if it is to be
// the last card of its column: right after the last task with status s;
// failing that, right before the first task of a later status; failing
// that, the end of the list.
func StatusEndIndex(tasks []*models.Task, s models.Status) int {
	for i := len(tasks) - 1; i >= 0; i-- {
		if tasks[i].Status == s {
			return i + 1
		}
	}
	for i, t := range tasks {
		if s.Before(t.Status) {
			return i
		}
	}
	return len(tasks)
}

// InsertAtStatusEnd inserts task as the last card of its current column.
func InsertAtStatusEnd(tasks []*models.Task, task *models.Task) []*models.Task {
	return slices.Insert(tasks, StatusEndIndex(tasks, task.Status), task)
}

// Remove returns the list without the task with the given id and the index
// it had, or the list unchanged and -1 when absent.
func Remove(tasks []*models.Task, id string) ([]*models.Task, int) {
	i := IndexOf(tasks, id)
	if i < 0 {
		return tasks, -1
	}
	return slices.Delete(tasks, i, i+1), i
}

// MoveToStatusEnd moves task to the bottom of the target column, changing
// its status when needed.
func MoveToStatusEnd(tasks []*models.Task, task *models.Task, target models.Status) ([]*models.Task, error) {
	rest, idx := Remove(tasks, task.ID)
	if idx < 0 {
		return tasks, ErrTaskNotInList
	}
	if task.Status != target {
		task.Status = target
	}
	return InsertAtStatusEnd(rest, task), nil
}

// MoveRelativeTo places dragged directly before or after target, adopting
// target's status. Dropping a task onto itself is rejected and leaves the
// list untouched.
func MoveRelativeTo(tasks []*models.Task, dragged, target *models.Task, placeBefore bool) ([]*models.Task, error) {
	if dragged.ID == target.ID {
		return tasks, ErrSelfDrop
	}
	if IndexOf(tasks, dragged.ID) < 0 || IndexOf(tasks, target.ID) < 0 {
		return tasks, ErrTaskNotInList
	}

	rest, _ := Remove(tasks, dragged.ID)
	targetIndex := IndexOf(rest, target.ID)

	if dragged.Status != target.Status {
		dragged.Status = target.Status
	}

	insertAt := targetIndex
	if !placeBefore {
		insertAt = targetIndex + 1
	}
	insertAt = max(0, min(insertAt, len(rest)))

	return slices.Insert(rest, insertAt, dragged), nil
}

// Normalize stably sorts tasks by status, keeping the relative order of
// tasks within each column.
func Normalize(tasks []*models.Task) []*models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Status.Before(tasks[j].Status)
	})
	return tasks
}

// IsBucketSorted reports whether no task is followed by a task of an
// earlier status.
func IsBucketSorted(tasks []*models.Task) bool {
	for i := 1; i < len(tasks); i++ {
		if tasks[i].Status.Before(tasks[i-1].Status) {
			return false
		}
	}
	return true
}

// Column returns the tasks with status s in board order.
func Column(tasks []*models.Task, s models.Status) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}
