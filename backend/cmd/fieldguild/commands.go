package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/pkg/color"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func statusLabel(s task.Status) string {
	switch s {
	case task.StatusCompleted:
		return color.Success(string(s))
	case task.StatusUrgent:
		return color.Failure(string(s))
	}
	return string(s)
}

func listTasks(ctx context.Context, c *client.Client, status, view string) error {
	tasks, err := c.ListTasks(ctx, task.Status(status), task.ViewType(view))
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	tw := newTable(os.Stdout)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Date, statusLabel(t.Status), t.Title)
	}
	return tw.Flush()
}

func addTask(ctx context.Context, c *client.Client, title, description, date string, urgent bool) error {
	req := &task.CreateTaskRequest{Title: title, Description: description, Date: date}
	if urgent {
		req.Status = task.StatusUrgent
	}
	t, err := c.CreateTask(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("%s added task %q for %s (%s)\n", color.Success("✓"), t.Title, t.Date, t.ID)
	return nil
}

func completeTask(ctx context.Context, c *client.Client, id string) error {
	t, err := c.CompleteTask(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s completed %q\n", color.Success("✓"), t.Title)
	return nil
}

func deleteTask(ctx context.Context, c *client.Client, id string) error {
	if err := c.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Printf("%s deleted task %s\n", color.Success("✓"), id)
	return nil
}

func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(task.DateLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return d, nil
}

func listEvents(ctx context.Context, c *client.Client, from, to, typ string) error {
	fromDay, err := parseDay(from)
	if err != nil {
		return err
	}
	toDay, err := parseDay(to)
	if err != nil {
		return err
	}
	if !toDay.IsZero() {
		toDay = toDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	events, err := c.ListEvents(ctx, fromDay, toDay, calendar.Type(typ))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}
	tw := newTable(os.Stdout)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tTITLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date.Local().Format("Mon Jan 2, 2006"), e.Type, e.Title)
	}
	return tw.Flush()
}

func addEvent(ctx context.Context, c *client.Client, title, description, date, typ string) error {
	day, err := parseDay(date)
	if err != nil {
		return err
	}
	e, err := c.CreateEvent(ctx, &calendar.CreateEventRequest{
		Date:        day,
		Title:       title,
		Description: description,
		Type:        calendar.Type(typ),
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s added event %q on %s (%s)\n", color.Success("✓"), e.Title, e.Date.Local().Format("Jan 2, 2006"), e.ID)
	return nil
}

func deleteEvent(ctx context.Context, c *client.Client, id string) error {
	if err := c.DeleteEvent(ctx, id); err != nil {
		return err
	}
	fmt.Printf("%s deleted event %s\n", color.Success("✓"), id)
	return nil
}

func listNotifications(ctx context.Context, c *client.Client, typ, query string) error {
	resp, err := c.ListNotifications(ctx, notification.ListFilter{Type: notification.Type(typ), Query: query})
	if err != nil {
		return err
	}
	fmt.Printf("%d unread\n", resp.UnreadCount)
	for _, n := range resp.Notifications {
		mark := " "
		if !n.Read {
			mark = color.Warning("●")
		}
		fmt.Printf("%s %s %s %s\n", mark, color.Faint(n.Date.Local().Format("Jan 2 15:04")), color.Prefix(string(n.Type)), n.Title)
		fmt.Printf("    %s\n", n.Message)
		fmt.Printf("    %s\n", color.Faint(n.ID))
	}
	return nil
}

func readNotifications(ctx context.Context, c *client.Client, id string, all bool) error {
	if all {
		n, err := c.MarkAllNotificationsRead(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s marked %d notifications as read\n", color.Success("✓"), n)
		return nil
	}
	if id == "" {
		return fmt.Errorf("notification id or --all is required")
	}
	n, err := c.MarkNotificationRead(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s read %q\n", color.Success("✓"), n.Title)
	return nil
}

// parse runs the extractor locally.
func parse(w io.Writer, words []string) error {
	actions := agent.NewExtractor().Extract(strings.Join(words, " "))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(actions)
}
