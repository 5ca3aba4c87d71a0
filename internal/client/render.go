package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/ordering"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// renderBoard prints every column in board order.
func renderBoard(w io.Writer, tasks []*models.Task) {
	for _, status := range models.Statuses() {
		column := ordering.Column(tasks, status)
		fmt.Fprintf(w, "== %s (%d)\n", status, len(column))
		for _, t := range column {
			line := fmt.Sprintf("  [%s] %s", shortID(t.ID), t.Title)
			if len(t.Labels) > 0 {
				line += "  #" + strings.Join(t.Labels, " #")
			}
			if len(t.Comments) > 0 {
				line += fmt.Sprintf("  (%d comments)", len(t.Comments))
			}
			fmt.Fprintln(w, line)
		}
	}
}

// renderTask prints the full details of one task.
func renderTask(w io.Writer, t *models.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Color:\t%s (%s)\n", t.BackgroundColor, t.BackgroundColor.Hex())
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreationDate.Display())
	fmt.Fprintf(tw, "Labels:\t%s\n", strings.Join(t.Labels, ", "))
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Issue:\t%s\n", t.IssueDescription)
	_ = tw.Flush()

	if len(t.Comments) == 0 {
		return
	}
	fmt.Fprintln(w, "Comments:")
	for _, c := range t.Comments {
		fmt.Fprintf(w, "  %s  %s\n", c.Timestamp.Display(), c.Text)
	}
}

func renderUsers(w io.Writer, users []models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tPERMISSION")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\n", u.Username, u.Permission)
	}
	_ = tw.Flush()
}
