package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cppgen/internal/manifest"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create cppgen.yaml interactively",
		Long: `Ask for the project's descriptor set, output root, and default generator
parameters, then write cppgen.yaml in the working directory.

Errors if cppgen.yaml already exists.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

// question is one wizard prompt. Required questions refuse an empty answer.
type question struct {
	key      string
	prompt   string
	required bool
}

var initQuestions = []question{
	{key: "descriptor_set", prompt: "Descriptor set path (protoc --descriptor_set_out)", required: true},
	{key: "out", prompt: "Output root for generated artifacts", required: true},
	{key: "parameter", prompt: "Default generator parameters (optional)"},
}

func runInit(cmd *cobra.Command, args []string) error {
	final, err := runWizard(newPromptModel(initQuestions))
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if err := manifest.Save(manifest.DefaultName, final.toManifest()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", manifest.DefaultName)
	return nil
}

// promptModel walks the init questions in order, one text input per
// question, so finished answers stay addressable by position.
type promptModel struct {
	questions []question
	answers   []textinput.Model
	current   int
	done      bool
}

func newPromptModel(questions []question) promptModel {
	m := promptModel{
		questions: questions,
		answers:   make([]textinput.Model, len(questions)),
	}
	for i, q := range questions {
		in := textinput.New()
		in.Placeholder = q.prompt
		in.CharLimit = 256
		m.answers[i] = in
	}
	if len(m.answers) > 0 {
		m.answers[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.questions[m.current].required && m.value(m.current) == "" {
			return m, nil
		}
		m.answers[m.current].Blur()
		if m.current == len(m.questions)-1 {
			m.done = true
			return m, tea.Quit
		}
		m.current++
		m.answers[m.current].Focus()
		return m, textinput.Blink
	default:
		return m.forward(msg)
	}
}

// forward hands msg to the focused input.
func (m promptModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.answers[m.current], cmd = m.answers[m.current].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.current]
	return fmt.Sprintf("[%d/%d] %s: %s\n", m.current+1, len(m.questions), q.prompt, m.answers[m.current].View())
}

// value returns the trimmed answer to question i.
func (m promptModel) value(i int) string {
	return strings.TrimSpace(m.answers[i].Value())
}

// toManifest assembles the answers into a manifest. Meaningful only once the
// wizard is done.
func (m promptModel) toManifest() *manifest.Manifest {
	byKey := make(map[string]string, len(m.questions))
	for i, q := range m.questions {
		byKey[q.key] = m.value(i)
	}
	return &manifest.Manifest{
		DescriptorSet: byKey["descriptor_set"],
		Out:           byKey["out"],
		Parameter:     byKey["parameter"],
	}
}

// runWizard runs the prompt program and returns the completed model.
func runWizard(m promptModel) (promptModel, error) {
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return promptModel{}, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return promptModel{}, fmt.Errorf("cancelled")
	}
	return final, nil
}
