package patch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/richhaase/aifix/internal/domain"
)

// Action is the user's decision on a presented fix.
type Action string

const (
	ActionApply Action = "apply"
	ActionSkip  Action = "skip"
	ActionEdit  Action = "edit"
	ActionQuit  Action = "quit"
)

// Styles for the review panel.
var (
	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	panelErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			PaddingLeft(2)

	panelExplainStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7")).
				PaddingLeft(2)

	panelHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Controller runs the interactive fix review. It alternates between
// presenting a suggestion and waiting for input on the same goroutine;
// there is no background event loop.
type Controller struct {
	in  *bufio.Reader
	out io.Writer

	// editCommand launches the user's editor on a file. Overridable in
	// tests.
	editCommand func(path string) error
}

// NewController creates a controller reading decisions from in and
// rendering to out.
func NewController(in io.Reader, out io.Writer) *Controller {
	return &Controller{
		in:          bufio.NewReader(in),
		out:         out,
		editCommand: runEditor,
	}
}

// Review presents a suggestion and returns the user's action. Edit
// opens $EDITOR on the patch and re-presents the edited suggestion;
// the returned suggestion carries any edits. Unrecognized input skips,
// matching the prompt's conservative default. EOF quits.
func (c *Controller) Review(e *domain.LintError, suggestion *domain.FixSuggestion, diff string) (Action, *domain.FixSuggestion, error) {
	current := *suggestion

	for {
		c.present(e, &current, diff)

		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return ActionQuit, &current, nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a":
			return ActionApply, &current, nil
		case "e":
			edited, editErr := c.edit(current.Patch)
			if editErr != nil {
				fmt.Fprintf(c.out, "editor failed (%v), skipping\n", editErr)
				return ActionSkip, &current, nil
			}
			current.Patch = edited
			current.Explanation = strings.TrimSpace(current.Explanation + " (edited)")
			diff = ""
		case "q":
			return ActionQuit, &current, nil
		default:
			return ActionSkip, &current, nil
		}
	}
}

func (c *Controller) present(e *domain.LintError, suggestion *domain.FixSuggestion, diff string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, panelTitleStyle.Render("Fix available for:"))
	fmt.Fprintln(c.out, panelErrorStyle.Render(e.String()))
	if suggestion.Explanation != "" {
		fmt.Fprintln(c.out, panelExplainStyle.Render(suggestion.Explanation))
	}
	if diff != "" {
		fmt.Fprintln(c.out, Colorize(diff))
	} else {
		fmt.Fprintln(c.out, suggestion.Patch)
	}
	fmt.Fprintln(c.out, panelHelpStyle.Render("[a]pply  [s]kip  [e]dit  [q]uit"))
	fmt.Fprint(c.out, "> ")
}

// edit writes the patch to a temp file, opens the editor on it, and
// returns the edited content.
func (c *Controller) edit(patch string) (string, error) {
	tmp, err := os.CreateTemp("", "aifix-edit-*.patch")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(patch); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seeding temp file: %w", err)
	}
	tmp.Close()

	if err := c.editCommand(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return strings.TrimRight(string(edited), "\n"), nil
}

func runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
