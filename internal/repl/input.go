package repl

import (
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/timefmt"
)

const (
	dateLayout  = timefmt.DateLayout
	clockLayout = timefmt.ClockLayout
)

func timeNow() time.Time { return time.Now() }

// lineReader wraps readline with per-call prompts, since the reminder
// flows switch prompts constantly.
type lineReader struct {
	rl *readline.Instance
}

func newLineReader() (*lineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "> ",
		HistoryFile:         "",
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return &lineReader{rl: rl}, nil
}

func (l *lineReader) Read(prompt string) (string, error) {
	l.rl.SetPrompt(prompt)
	line, err := l.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (l *lineReader) ReadWithDefault(prompt, def string) (string, error) {
	l.rl.SetPrompt(prompt)
	line, err := l.rl.ReadlineWithDefault(def)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (l *lineReader) Close() {
	l.rl.Close()
}

// promptForm collects reminder form fields, pre-filled from the given
// form. Pressing enter keeps the shown value.
func (r *REPL) promptForm(form reminder.FormData) (reminder.FormData, error) {
	var err error

	form.Title, err = r.rl.ReadWithDefault("Title: ", form.Title)
	if err != nil {
		return form, err
	}

	form.Description, err = r.rl.ReadWithDefault("Notes (optional): ", form.Description)
	if err != nil {
		return form, err
	}

	dateDef := form.Date
	if dateDef == "" {
		dateDef = timeNow().Format(dateLayout)
	}
	form.Date, err = r.rl.ReadWithDefault("Date (YYYY-MM-DD): ", dateDef)
	if err != nil {
		return form, err
	}

	form.Clock, err = r.rl.ReadWithDefault("Time (HH:MM): ", form.Clock)
	if err != nil {
		return form, err
	}

	dailyDef := "n"
	if form.RepeatDaily {
		dailyDef = "y"
	}
	daily, err := r.rl.ReadWithDefault("Repeat daily? [y/n]: ", dailyDef)
	if err != nil {
		return form, err
	}
	form.RepeatDaily = strings.EqualFold(daily, "y") || strings.EqualFold(daily, "yes")

	return form, nil
}

func parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
