package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/ui"
)

// REPL is the interactive reminder client. Bare input is treated as
// natural-language reminder text; slash commands manage existing
// reminders.
type REPL struct {
	service   *reminder.Service
	formatter *ui.Formatter
	rl        *lineReader
}

func NewREPL(service *reminder.Service, colored bool) (*REPL, error) {
	rl, err := newLineReader()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	return &REPL{
		service:   service,
		formatter: ui.NewFormatter(colored),
		rl:        rl,
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		input, err := r.rl.Read("> ")
		if err != nil {
			if isEOF(err) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := parseCommand(input)
		if isCommand {
			if err := r.handleCommand(ctx, command, args); err != nil {
				fmt.Println(r.formatter.Error(err))
			}

			if command == "/quit" || command == "/exit" || command == "/q" {
				return nil
			}

			continue
		}

		if err := r.handleText(ctx, input); err != nil {
			fmt.Println(r.formatter.Error(err))
		}
	}
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/add", "/a":
		return r.handleAdd(ctx)

	case "/list", "/l":
		return r.handleList(ctx)

	case "/search", "/s":
		if args == "" {
			return fmt.Errorf("usage: /search <text>")
		}
		return r.handleSearch(ctx, args)

	case "/on":
		return r.handleToggle(ctx, args, true)

	case "/off":
		return r.handleToggle(ctx, args, false)

	case "/edit", "/e":
		return r.handleEdit(ctx, args)

	case "/rm", "/delete":
		return r.handleDelete(ctx, args)

	case "/quit", "/exit", "/q":
		fmt.Println("\nGoodbye!")
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

// handleText runs the text-create flow: resolve, preview, confirm or
// adjust, then commit.
func (r *REPL) handleText(ctx context.Context, text string) error {
	fields, err := r.service.CreateFromText(ctx, text)
	if err != nil {
		return err
	}

	form := reminder.FormFromFields(fields, timeNow())
	fmt.Print(r.formatter.Preview(fields, form))

	choice, err := r.rl.Read("Create? [Y/n/e(dit)] ")
	if err != nil {
		return err
	}

	switch strings.ToLower(choice) {
	case "", "y", "yes":
	case "e", "edit":
		form, err = r.promptForm(form)
		if err != nil {
			return err
		}
	default:
		fmt.Println(r.formatter.Info("Cancelled."))
		return nil
	}

	created, err := r.service.CreateFromForm(ctx, form)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Success("Reminder created:"))
	fmt.Println(r.formatter.Line(created))
	return nil
}

func (r *REPL) handleAdd(ctx context.Context) error {
	form, err := r.promptForm(reminder.FormData{})
	if err != nil {
		return err
	}

	created, err := r.service.CreateFromForm(ctx, form)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Success("Reminder created:"))
	fmt.Println(r.formatter.Line(created))
	return nil
}

func (r *REPL) handleList(ctx context.Context) error {
	active, err := r.service.ListActive(ctx)
	if err != nil {
		return err
	}
	inactive, err := r.service.ListInactive(ctx)
	if err != nil {
		return err
	}

	fmt.Print(r.formatter.List("Active", active))
	fmt.Print(r.formatter.List("Inactive", inactive))
	return nil
}

func (r *REPL) handleSearch(ctx context.Context, query string) error {
	matches, err := r.service.Search(ctx, query)
	if err != nil {
		return err
	}

	fmt.Print(r.formatter.List(fmt.Sprintf("Matches for %q", query), matches))
	return nil
}

func (r *REPL) handleToggle(ctx context.Context, args string, on bool) error {
	id, err := r.resolveID(ctx, args)
	if err != nil {
		return err
	}

	updated, err := r.service.Toggle(ctx, id, on)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Line(updated))
	return nil
}

func (r *REPL) handleEdit(ctx context.Context, args string) error {
	id, err := r.resolveID(ctx, args)
	if err != nil {
		return err
	}

	current, err := r.service.Get(ctx, id)
	if err != nil {
		return err
	}

	form, err := r.promptForm(reminder.FormData{
		Title:       current.Title,
		Description: current.Description,
		Date:        current.ScheduledTime.Format(dateLayout),
		Clock:       current.ScheduledTime.Format(clockLayout),
		RepeatDaily: current.Repeat.IsDaily(),
	})
	if err != nil {
		return err
	}

	updated, err := r.service.Edit(ctx, id, form)
	if err != nil {
		if updated != nil {
			// Non-schedule edits committed despite the scheduling failure.
			fmt.Println(r.formatter.Line(updated))
		}
		return err
	}

	fmt.Println(r.formatter.Success("Reminder updated:"))
	fmt.Println(r.formatter.Line(updated))
	return nil
}

func (r *REPL) handleDelete(ctx context.Context, args string) error {
	id, err := r.resolveID(ctx, args)
	if err != nil {
		return err
	}

	if err := r.service.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Println(r.formatter.Success("Reminder deleted."))
	return nil
}

// resolveID accepts a full reminder id or an unambiguous prefix.
func (r *REPL) resolveID(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("a reminder id is required (see /list)")
	}

	all, err := r.service.Search(ctx, "")
	if err != nil {
		return "", err
	}

	var matches []string
	for _, rem := range all {
		if rem.ID == token {
			return token, nil
		}
		if strings.HasPrefix(rem.ID, token) {
			matches = append(matches, rem.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no reminder matches id %q", token)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", token, len(matches))
	}
}
