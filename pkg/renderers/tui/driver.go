package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// PromptKind selects the terminal control used to ask a Prompt.
type PromptKind int

const (
	// PromptText asks for a single line.
	PromptText PromptKind = iota
	// PromptSecret asks for a single line without echoing it.
	PromptSecret
	// PromptMultiline asks for free text spanning several lines.
	PromptMultiline
	// PromptConfirm asks a yes/no question.
	PromptConfirm
	// PromptChoice picks one of Options.
	PromptChoice
	// PromptChoices picks any number of Options.
	PromptChoices
)

// Prompt is one question put to the user while a form is filled in.
type Prompt struct {
	Kind    PromptKind
	Message string
	Help    string
	// Default prefills text kinds.
	Default string
	// Yes is the default answer of PromptConfirm.
	Yes     bool
	Options []string
	// Selected indexes Options chosen up front by the choice kinds.
	Selected []int
}

// Answer is the reply to a Prompt. Only the member matching the prompt kind
// is populated; PromptChoice yields at most one index in Selected.
type Answer struct {
	Text     string
	Yes      bool
	Selected []int
}

// PromptDriver asks prompts on a terminal. Tests script it.
type PromptDriver interface {
	Ask(ctx context.Context, prompt Prompt) (Answer, error)
	Notify(ctx context.Context, message string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns a PromptDriver backed by survey. Notifications are
// written to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, prompt Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	var answer Answer
	switch prompt.Kind {
	case PromptText:
		err := askOne(&survey.Input{Message: prompt.Message, Help: prompt.Help, Default: prompt.Default}, &answer.Text)
		return answer, err
	case PromptSecret:
		err := askOne(&survey.Password{Message: prompt.Message, Help: prompt.Help}, &answer.Text)
		return answer, err
	case PromptMultiline:
		err := askOne(&survey.Multiline{Message: prompt.Message, Help: prompt.Help, Default: prompt.Default}, &answer.Text)
		return answer, err
	case PromptConfirm:
		err := askOne(&survey.Confirm{Message: prompt.Message, Help: prompt.Help, Default: prompt.Yes}, &answer.Yes)
		return answer, err
	case PromptChoice:
		question := &survey.Select{Message: prompt.Message, Help: prompt.Help, Options: prompt.Options}
		if picked := pick(prompt.Options, prompt.Selected); len(picked) > 0 {
			question.Default = picked[0]
		}
		var choice string
		if err := askOne(question, &choice); err != nil {
			return answer, err
		}
		answer.Selected = positions(prompt.Options, []string{choice})
		return answer, nil
	case PromptChoices:
		question := &survey.MultiSelect{Message: prompt.Message, Help: prompt.Help, Options: prompt.Options}
		if picked := pick(prompt.Options, prompt.Selected); len(picked) > 0 {
			question.Default = picked
		}
		var choices []string
		if err := askOne(question, &choices); err != nil {
			return answer, err
		}
		answer.Selected = positions(prompt.Options, choices)
		return answer, nil
	default:
		return answer, fmt.Errorf("tui: unsupported prompt kind %d", prompt.Kind)
	}
}

func (d *surveyDriver) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, message)
	return err
}

// askOne runs a survey question, reporting Ctrl+C as ErrAborted.
func askOne(question survey.Prompt, response any) error {
	err := survey.AskOne(question, response)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// pick maps indices to option labels, dropping out-of-range entries.
func pick(options []string, indices []int) []string {
	var labels []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			labels = append(labels, options[idx])
		}
	}
	return labels
}

// positions maps chosen labels back to their indices in options order.
func positions(options, chosen []string) []int {
	want := make(map[string]bool, len(chosen))
	for _, label := range chosen {
		want[label] = true
	}
	var out []int
	for idx, option := range options {
		if want[option] {
			out = append(out, idx)
		}
	}
	return out
}
