package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

type command struct {
	name       string
	usage      string
	summary    string
	minArgs    int
	needsLogin bool
	run        func(ctx context.Context, s *Shell, args []string) error
}

var commands []*command

var commandIndex map[string]*command

func init() {
	commands = []*command{
		{name: "help", usage: "help", summary: "list commands", run: runHelp},
		{name: "register", usage: "register <username> <password> <Student|Teacher|Admin>", summary: "create an account", minArgs: 3, run: runRegister},
		{name: "login", usage: "login <username> [password]", summary: "start a session", minArgs: 1, run: runLogin},
		{name: "logout", usage: "logout", summary: "end the session", run: runLogout},
		{name: "whoami", usage: "whoami", summary: "show the current user", run: runWhoami},

		{name: "listPeers", usage: "listPeers", summary: "list chat peers", needsLogin: true, run: runListPeers},
		{name: "sendMessage", usage: "sendMessage <peer> <text...>", summary: "send a chat message", minArgs: 2, needsLogin: true, run: runSendMessage},
		{name: "viewMessages", usage: "viewMessages <peer>", summary: "show messages a peer sent you", minArgs: 1, needsLogin: true, run: runViewMessages},
		{name: "viewConversation", usage: "viewConversation <peer>", summary: "show both sides of a chat", minArgs: 1, needsLogin: true, run: runViewConversation},

		{name: "createSubject", usage: "createSubject <name>", summary: "create a subject (teacher/admin)", minArgs: 1, needsLogin: true, run: runCreateSubject},
		{name: "addTopic", usage: "addTopic <subject> <topic>", summary: "add a topic (teacher/admin)", minArgs: 2, needsLogin: true, run: runAddTopic},
		{name: "markTopicComplete", usage: "markTopicComplete <subject> <topic>", summary: "mark a topic taught (teacher/admin)", minArgs: 2, needsLogin: true, run: runMarkTopicComplete},
		{name: "viewTopics", usage: "viewTopics <subject>", summary: "list topics in order", minArgs: 1, needsLogin: true, run: runViewTopics},
		{name: "subjectCompletion", usage: "subjectCompletion <subject>", summary: "show completion percentage", minArgs: 1, needsLogin: true, run: runSubjectCompletion},
		{name: "listSubjects", usage: "listSubjects", summary: "list subjects", needsLogin: true, run: runListSubjects},
		{name: "syllabusReport", usage: "syllabusReport", summary: "completion across subjects", needsLogin: true, run: runSyllabusReport},

		{name: "postAnnouncement", usage: "postAnnouncement <text...>", summary: "post an announcement (teacher/admin)", minArgs: 1, needsLogin: true, run: runPostAnnouncement},
		{name: "viewAnnouncements", usage: "viewAnnouncements", summary: "list announcements, newest first", needsLogin: true, run: runViewAnnouncements},

		{name: "createAssignment", usage: "createAssignment <title> <description> <YYYYMMDD>", summary: "schedule an assignment (teacher/admin)", minArgs: 3, needsLogin: true, run: runCreateAssignment},
		{name: "listAssignments", usage: "listAssignments", summary: "list assignments by due date", needsLogin: true, run: runListAssignments},
		{name: "viewAssignment", usage: "viewAssignment <id>", summary: "show one assignment with its submissions", minArgs: 1, needsLogin: true, run: runViewAssignment},
		{name: "submitAssignment", usage: "submitAssignment <id> <filename>", summary: "hand in work (student)", minArgs: 2, needsLogin: true, run: runSubmitAssignment},
		{name: "nextAssignment", usage: "nextAssignment", summary: "show the assignment due soonest", needsLogin: true, run: runNextAssignment},
		{name: "retireAssignment", usage: "retireAssignment", summary: "remove the assignment due soonest (teacher/admin)", needsLogin: true, run: runRetireAssignment},

		{name: "listUsers", usage: "listUsers", summary: "list users (admin)", needsLogin: true, run: runListUsers},
		{name: "exportUsers", usage: "exportUsers <path>", summary: "write users to a file (admin)", minArgs: 1, needsLogin: true, run: runExportUsers},
		{name: "importUsers", usage: "importUsers <path>", summary: "load users from a file (admin)", minArgs: 1, needsLogin: true, run: runImportUsers},
		{name: "backupUsers", usage: "backupUsers", summary: "archive users in Postgres (admin)", needsLogin: true, run: runBackupUsers},
		{name: "restoreUsers", usage: "restoreUsers", summary: "load users from the archive (admin)", needsLogin: true, run: runRestoreUsers},
		{name: "exportReport", usage: "exportReport <path.csv|path.pdf> [syllabus|assignments]", summary: "write a report (admin)", minArgs: 1, needsLogin: true, run: runExportReport},

		{name: "exit", usage: "exit", summary: "leave the console", run: runExit},
	}
	commandIndex = make(map[string]*command, len(commands))
	for _, cmd := range commands {
		commandIndex[strings.ToLower(cmd.name)] = cmd
	}
}

// lookup resolves a verb case-insensitively.
func lookup(verb string) (*command, bool) {
	cmd, ok := commandIndex[strings.ToLower(verb)]
	return cmd, ok
}

func runHelp(ctx context.Context, s *Shell, args []string) error {
	s.printf("Commands:\n")
	for _, cmd := range commands {
		s.printf("  %-58s %s\n", cmd.usage, cmd.summary)
	}
	return nil
}

func runExit(ctx context.Context, s *Shell, args []string) error {
	s.printf("Goodbye.\n")
	return errExit
}

func runRegister(ctx context.Context, s *Shell, args []string) error {
	role, err := models.ParseUserRole(args[2])
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "role must be Student, Teacher or Admin")
	}
	info, err := s.app.Users.Register(ctx, models.RegisterRequest{Username: args[0], Password: args[1], Role: role})
	if err != nil {
		return err
	}
	s.printf("Registered %s as %s (id %d).\n", info.Username, info.Role, info.ID)
	return nil
}

func runLogin(ctx context.Context, s *Shell, args []string) error {
	req := models.LoginRequest{Username: args[0]}
	if len(args) > 1 {
		req.Password = args[1]
	} else {
		pwd, err := s.readPassword()
		if err != nil {
			return err
		}
		req.Password = pwd
	}
	session, err := s.app.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	s.session = session
	s.printf("Logged in as %s (id %d).\n", session.Username, session.UserID)
	return nil
}

func runLogout(ctx context.Context, s *Shell, args []string) error {
	if s.session == nil {
		s.printf("No user logged in.\n")
		return nil
	}
	s.printf("Logged out %s.\n", s.session.Username)
	s.session = nil
	return nil
}

func runWhoami(ctx context.Context, s *Shell, args []string) error {
	if s.session == nil {
		s.printf("Not logged in.\n")
		return nil
	}
	s.printf("Current user: %s (%s, id %d)\n", s.session.Username, s.session.Role, s.session.UserID)
	return nil
}

func runListPeers(ctx context.Context, s *Shell, args []string) error {
	peers := s.app.Messages.Peers(ctx, *s.session)
	if len(peers) == 0 {
		s.printf("No peers.\n")
		return nil
	}
	s.printf("Peers:\n")
	for _, p := range peers {
		s.printf(" - ID:%d Name:%s\n", p.ID, p.Username)
	}
	return nil
}

func runSendMessage(ctx context.Context, s *Shell, args []string) error {
	req := models.SendMessageRequest{Peer: args[0], Text: strings.Join(args[1:], " ")}
	if _, err := s.app.Messages.Send(ctx, *s.session, req); err != nil {
		return err
	}
	s.printf("Message sent.\n")
	return nil
}

func runViewMessages(ctx context.Context, s *Shell, args []string) error {
	msgs, err := s.app.Messages.Messages(ctx, *s.session, args[0])
	if err != nil {
		return err
	}
	printMessages(s, msgs)
	return nil
}

func runViewConversation(ctx context.Context, s *Shell, args []string) error {
	msgs, err := s.app.Messages.Conversation(ctx, *s.session, args[0])
	if err != nil {
		return err
	}
	printMessages(s, msgs)
	return nil
}

func printMessages(s *Shell, msgs []models.MessageView) {
	if len(msgs) == 0 {
		s.printf("No messages.\n")
		return
	}
	for _, m := range msgs {
		s.printf("[%s] %s: %s\n", m.SentAt.Format("2006-01-02 15:04"), m.From, m.Text)
	}
}

func runCreateSubject(ctx context.Context, s *Shell, args []string) error {
	if err := s.app.Subjects.CreateSubject(ctx, *s.session, models.CreateSubjectRequest{Name: args[0]}); err != nil {
		return err
	}
	s.printf("Subject created.\n")
	return nil
}

func runAddTopic(ctx context.Context, s *Shell, args []string) error {
	if err := s.app.Subjects.AddTopic(ctx, *s.session, models.AddTopicRequest{Subject: args[0], Topic: args[1]}); err != nil {
		return err
	}
	s.printf("Topic added.\n")
	return nil
}

func runMarkTopicComplete(ctx context.Context, s *Shell, args []string) error {
	if err := s.app.Subjects.MarkComplete(ctx, *s.session, args[0], args[1]); err != nil {
		return err
	}
	s.printf("Topic marked complete.\n")
	return nil
}

func runViewTopics(ctx context.Context, s *Shell, args []string) error {
	topics, err := s.app.Subjects.Topics(ctx, args[0])
	if err != nil {
		return err
	}
	s.printf("Topics for %s:\n", args[0])
	empty := true
	for topic := range topics {
		empty = false
		mark := " "
		if topic.Completed {
			mark = "x"
		}
		s.printf(" [%s] %s\n", mark, topic.Name)
	}
	if empty {
		s.printf(" (none)\n")
	}
	return nil
}

func runSubjectCompletion(ctx context.Context, s *Shell, args []string) error {
	pct, err := s.app.Subjects.Completion(ctx, args[0])
	if err != nil {
		return err
	}
	s.printf("Completion for %s: %.2f%%\n", args[0], pct)
	return nil
}

func runListSubjects(ctx context.Context, s *Shell, args []string) error {
	subjects := s.app.Subjects.Subjects(ctx)
	if len(subjects) == 0 {
		s.printf("No subjects.\n")
		return nil
	}
	s.printf("Subjects:\n")
	for _, name := range subjects {
		s.printf(" - %s\n", name)
	}
	return nil
}

func runSyllabusReport(ctx context.Context, s *Shell, args []string) error {
	report, err := s.app.Subjects.Report(ctx)
	if err != nil {
		return err
	}
	if len(report) == 0 {
		s.printf("No subjects.\n")
		return nil
	}
	for _, row := range report {
		s.printf(" - %s: %d/%d topics (%.2f%%)\n", row.Subject, row.Completed, row.Total, row.Percent)
	}
	return nil
}

func runPostAnnouncement(ctx context.Context, s *Shell, args []string) error {
	req := models.CreateAnnouncementRequest{Text: strings.Join(args, " ")}
	if _, err := s.app.Announcements.Post(ctx, *s.session, req); err != nil {
		return err
	}
	s.printf("Posted.\n")
	return nil
}

func runViewAnnouncements(ctx context.Context, s *Shell, args []string) error {
	items := s.app.Announcements.List(ctx)
	if len(items) == 0 {
		s.printf("No announcements.\n")
		return nil
	}
	s.printf("Announcements:\n")
	for _, a := range items {
		s.printf("[%s] %s (%s)\n", a.PostedAt.Format("2006-01-02 15:04"), a.Text, a.Author)
	}
	return nil
}

func runCreateAssignment(ctx context.Context, s *Shell, args []string) error {
	due, err := strconv.Atoi(args[2])
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "due date must be YYYYMMDD")
	}
	created, err := s.app.Assignments.Create(ctx, *s.session, models.CreateAssignmentRequest{Title: args[0], Description: args[1], DueDate: due})
	if err != nil {
		return err
	}
	s.printf("Assignment created with ID %d.\n", created.ID)
	return nil
}

func runListAssignments(ctx context.Context, s *Shell, args []string) error {
	list := s.app.Assignments.List(ctx)
	if len(list) == 0 {
		s.printf("No assignments.\n")
		return nil
	}
	for _, a := range list {
		printAssignment(s, a)
	}
	return nil
}

func printAssignment(s *Shell, a models.AssignmentView) {
	s.printf("ID:%d | %s | Due:%d\n", a.ID, a.Title, a.DueDate)
	if a.Description != "" {
		s.printf("   %s\n", a.Description)
	}
	s.printf("   Submissions: %d\n", len(a.Submissions))
	for _, sub := range a.Submissions {
		s.printf("    - %s: %s\n", sub.Student, sub.Filename)
	}
}

func runViewAssignment(ctx context.Context, s *Shell, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "assignment id must be a number")
	}
	a, err := s.app.Assignments.Get(ctx, id)
	if err != nil {
		return err
	}
	printAssignment(s, *a)
	return nil
}

func runSubmitAssignment(ctx context.Context, s *Shell, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "assignment id must be a number")
	}
	if err := s.app.Assignments.Submit(ctx, *s.session, models.SubmitAssignmentRequest{AssignmentID: id, Filename: args[1]}); err != nil {
		return err
	}
	s.printf("Submitted.\n")
	return nil
}

func runNextAssignment(ctx context.Context, s *Shell, args []string) error {
	next, err := s.app.Assignments.Next(ctx)
	if err != nil {
		return err
	}
	s.printf("Next due: ID:%d %s (%d)\n", next.ID, next.Title, next.DueDate)
	return nil
}

func runRetireAssignment(ctx context.Context, s *Shell, args []string) error {
	retired, err := s.app.Assignments.Retire(ctx, *s.session)
	if err != nil {
		return err
	}
	s.printf("Retired ID:%d %s (%d) with %d submissions.\n", retired.ID, retired.Title, retired.DueDate, len(retired.Submissions))
	return nil
}

func runListUsers(ctx context.Context, s *Shell, args []string) error {
	users, _, err := s.app.Users.List(ctx, *s.session, models.UserFilter{})
	if err != nil {
		return err
	}
	for _, u := range users {
		s.printf("ID:%d %s (%s)\n", u.ID, u.Username, u.Role)
	}
	return nil
}

func runExportUsers(ctx context.Context, s *Shell, args []string) error {
	result, err := s.app.Users.Export(ctx, *s.session, args[0])
	if err != nil {
		return err
	}
	s.printf("Exported %d users to %s.\n", result.Count, result.Path)
	return nil
}

func runImportUsers(ctx context.Context, s *Shell, args []string) error {
	result, err := s.app.Users.Import(ctx, *s.session, args[0])
	if err != nil {
		return err
	}
	s.printf("Imported %d users from %s.\n", result.Count, result.Path)
	return nil
}

func runBackupUsers(ctx context.Context, s *Shell, args []string) error {
	result, err := s.app.Users.Backup(ctx, *s.session)
	if err != nil {
		return err
	}
	s.printf("Archived %d users.\n", result.Count)
	return nil
}

func runRestoreUsers(ctx context.Context, s *Shell, args []string) error {
	result, err := s.app.Users.Restore(ctx, *s.session)
	if err != nil {
		return err
	}
	s.printf("Restored %d users.\n", result.Count)
	return nil
}

func runExportReport(ctx context.Context, s *Shell, args []string) error {
	kind := models.ReportKindSyllabus
	if len(args) > 1 {
		kind = models.ReportKind(args[1])
	}
	result, err := s.app.Reports.Export(ctx, *s.session, models.ExportReportRequest{Kind: kind, Path: args[0]})
	if err != nil {
		return err
	}
	s.printf("Wrote %s report (%d rows) to %s.\n", result.Kind, result.Rows, result.Path)
	return nil
}
