package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/pkg/color"
)

var (
	app = kingpin.New("fieldguild", "Farm dashboard assistant")

	serverURL = app.Flag("server", "fieldguild-server base URL").Envar("FIELDGUILD_SERVER").Default("http://localhost:3100").String()
	session   = app.Flag("session", "Dashboard session").Envar("FIELDGUILD_SESSION").Default(sessionid.Default).String()
	apiKey    = app.Flag("api-key", "Server API key").Envar("FIELDGUILD_API_KEY").String()
	llmKey    = app.Flag("llm-key", "Model provider key overriding the server's").Envar("FIELDGUILD_LLM_KEY").String()

	chatCmd     = app.Command("chat", "Chat with Agnes (interactive unless --message is given)")
	chatMessage = chatCmd.Flag("message", "Send one message and exit").Short('m').String()
	chatReset   = chatCmd.Flag("reset", "Clear the chat history first").Bool()

	tasksCmd         = app.Command("tasks", "Manage tasks")
	tasksListCmd     = tasksCmd.Command("list", "List tasks").Default()
	tasksListStatus  = tasksListCmd.Flag("status", "pending, urgent or completed").String()
	tasksListView    = tasksListCmd.Flag("view", "farmer or advisor").String()
	tasksAddCmd      = tasksCmd.Command("add", "Add a task")
	tasksAddTitle    = tasksAddCmd.Arg("title", "Task title").Required().String()
	tasksAddDate     = tasksAddCmd.Flag("date", "Due date (YYYY-MM-DD), today by default").String()
	tasksAddDesc     = tasksAddCmd.Flag("description", "Task description").String()
	tasksAddUrgent   = tasksAddCmd.Flag("urgent", "Mark as urgent").Bool()
	tasksCompleteCmd = tasksCmd.Command("complete", "Complete a task")
	tasksCompleteID  = tasksCompleteCmd.Arg("id", "Task ID").Required().String()
	tasksDeleteCmd   = tasksCmd.Command("delete", "Delete a task")
	tasksDeleteID    = tasksDeleteCmd.Arg("id", "Task ID").Required().String()

	eventsCmd       = app.Command("events", "Manage calendar events")
	eventsListCmd   = eventsCmd.Command("list", "List events").Default()
	eventsListFrom  = eventsListCmd.Flag("from", "First day (YYYY-MM-DD)").String()
	eventsListTo    = eventsListCmd.Flag("to", "Last day (YYYY-MM-DD)").String()
	eventsListType  = eventsListCmd.Flag("type", "Event type").String()
	eventsAddCmd    = eventsCmd.Command("add", "Add an event")
	eventsAddTitle  = eventsAddCmd.Arg("title", "Event title").Required().String()
	eventsAddDate   = eventsAddCmd.Flag("date", "Day (YYYY-MM-DD)").Required().String()
	eventsAddType   = eventsAddCmd.Flag("type", "Event type").Default("other").String()
	eventsAddDesc   = eventsAddCmd.Flag("description", "Event description").String()
	eventsDeleteCmd = eventsCmd.Command("delete", "Delete an event")
	eventsDeleteID  = eventsDeleteCmd.Arg("id", "Event ID").Required().String()

	notificationsCmd      = app.Command("notifications", "Read the notification inbox")
	notificationsListCmd  = notificationsCmd.Command("list", "List notifications").Default()
	notificationsListType = notificationsListCmd.Flag("type", "Notification type").String()
	notificationsListQ    = notificationsListCmd.Flag("query", "Search title and message").Short('q').String()
	notificationsReadCmd  = notificationsCmd.Command("read", "Mark notifications as read")
	notificationsReadID   = notificationsReadCmd.Arg("id", "Notification ID").String()
	notificationsReadAll  = notificationsReadCmd.Flag("all", "Mark every notification as read").Bool()

	parseCmd     = app.Command("parse", "Show the actions a message would trigger, without a server")
	parseMessage = parseCmd.Arg("message", "Message to parse").Required().Strings()

	serveCheckCmd = app.Command("serve-check", "Check that the server is up")
)

func main() {
	_ = godotenv.Load()
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command); err != nil {
		fmt.Fprintln(os.Stderr, color.Failure("error:"), err)
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.New(*serverURL,
		client.WithSession(*session),
		client.WithAPIKey(*apiKey),
		client.WithLLMKey(*llmKey),
	)
}

func run(ctx context.Context, command string) error {
	switch command {
	case chatCmd.FullCommand():
		return runChat(ctx, newClient(), *chatMessage, *chatReset)
	case tasksListCmd.FullCommand():
		return listTasks(ctx, newClient(), *tasksListStatus, *tasksListView)
	case tasksAddCmd.FullCommand():
		return addTask(ctx, newClient(), *tasksAddTitle, *tasksAddDesc, *tasksAddDate, *tasksAddUrgent)
	case tasksCompleteCmd.FullCommand():
		return completeTask(ctx, newClient(), *tasksCompleteID)
	case tasksDeleteCmd.FullCommand():
		return deleteTask(ctx, newClient(), *tasksDeleteID)
	case eventsListCmd.FullCommand():
		return listEvents(ctx, newClient(), *eventsListFrom, *eventsListTo, *eventsListType)
	case eventsAddCmd.FullCommand():
		return addEvent(ctx, newClient(), *eventsAddTitle, *eventsAddDesc, *eventsAddDate, *eventsAddType)
	case eventsDeleteCmd.FullCommand():
		return deleteEvent(ctx, newClient(), *eventsDeleteID)
	case notificationsListCmd.FullCommand():
		return listNotifications(ctx, newClient(), *notificationsListType, *notificationsListQ)
	case notificationsReadCmd.FullCommand():
		return readNotifications(ctx, newClient(), *notificationsReadID, *notificationsReadAll)
	case parseCmd.FullCommand():
		return parse(os.Stdout, *parseMessage)
	case serveCheckCmd.FullCommand():
		if err := newClient().Health(ctx); err != nil {
			return err
		}
		fmt.Println(color.Success("ok"), *serverURL)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}
