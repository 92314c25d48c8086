package repl

import "fmt"

func (r *REPL) displayWelcome() {
	fmt.Println(r.formatter.Info("align — reminders from plain text"))
	fmt.Println(r.formatter.Info(`Type what to remember, e.g. "call mom tomorrow at 3pm", or /help for commands.`))
	fmt.Println()
}

func (r *REPL) displayHelp() {
	fmt.Print(`Commands:
  <text>           Create a reminder from plain text, with confirmation
  /add, /a         Create a reminder field by field
  /list, /l        List active and inactive reminders
  /search <text>   Search reminders by title or notes
  /on <id>         Activate a reminder
  /off <id>        Deactivate a reminder
  /edit <id>       Edit a reminder's fields
  /rm <id>         Delete a reminder
  /help, /h        Show this help
  /quit, /exit     Leave

Ids may be abbreviated to any unique prefix shown in /list.
`)
}
