package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/barpipe/barpipe/internal/config"
	"github.com/barpipe/barpipe/internal/process"
	"github.com/barpipe/barpipe/internal/protocol"
	"github.com/barpipe/barpipe/internal/relay"
)

// inspectFlags holds command-line flags for the inspect command.
type inspectFlags struct {
	configPath      string
	generatorConfig string
}

// newInspectCommand creates the inspect subcommand.
func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [flags] [-- <generator-command> [generator-args...]]",
		Short: "View a generator's decoded status blocks in a live terminal UI",
		Long: `Inspect launches the generator through the same machinery as run, but
instead of speaking the wire protocol it decodes each status line and
renders the blocks in a live view. Useful for debugging a generator
configuration without wiring up a bar.

Example:
  barpipe inspect
  barpipe inspect -- i3status -c /etc/i3status.conf`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to the barpipe configuration file")
	cmd.Flags().StringVar(&flags.generatorConfig, "generator-config", "", "Configuration file forwarded to the generator")

	return cmd
}

func runInspect(cmd *cobra.Command, flags *inspectFlags, args []string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	executable := cfg.Generator
	extraArgs := cfg.Args
	if len(args) > 0 {
		executable = args[0]
		extraArgs = args[1:]
	}

	genCmd, err := process.NewCommand(executable, extraArgs)
	if err != nil {
		return fmt.Errorf("invalid generator command: %w", err)
	}

	generatorConfig := cfg.GeneratorConfig
	if flags.generatorConfig != "" {
		generatorConfig = flags.generatorConfig
	}
	if generatorConfig != "" {
		genCmd = genCmd.WithConfigFile(generatorConfig)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan inspectMsg, 16)
	go streamGenerator(ctx, genCmd, updates)

	model := newInspectModel(genCmd.String(), updates)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("inspect view failed: %w", err)
	}

	return nil
}

// inspectMsg carries one update from the generator stream into the
// Bubble Tea program.
type inspectMsg struct {
	header *protocol.Header
	blocks []protocol.Block
	err    error
}

// streamGenerator spawns the generator and feeds decoded status lines
// into updates until the stream ends or ctx is cancelled. The
// generator's stderr is discarded here: the view owns the terminal.
func streamGenerator(ctx context.Context, genCmd process.Command, updates chan<- inspectMsg) {
	defer close(updates)

	launcher := process.NewOSLauncherWithStderr(io.Discard)
	handle, err := launcher.Spawn(ctx, genCmd)
	if err != nil {
		updates <- inspectMsg{err: err}
		return
	}
	defer handle.Terminate()

	stdout := handle.Stdout()
	if stdout == nil {
		updates <- inspectMsg{err: relay.ErrNoOutputHandle}
		return
	}

	channel := relay.NewLineChannel()
	channel.Bind(stdout)

	var buf []byte
	readLine := func() ([]byte, error) {
		buf = buf[:0]
		if _, err := channel.ReadLine(&buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	line, err := readLine()
	if err != nil {
		updates <- inspectMsg{err: fmt.Errorf("reading header: %w", err)}
		return
	}
	header, err := protocol.DecodeHeader(line)
	if err != nil {
		updates <- inspectMsg{err: err}
		return
	}
	updates <- inspectMsg{header: &header}

	// The array opening carries no blocks.
	if _, err := readLine(); err != nil {
		updates <- inspectMsg{err: fmt.Errorf("reading array open: %w", err)}
		return
	}

	for {
		line, err := readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				updates <- inspectMsg{err: err}
			}
			return
		}

		blocks, err := protocol.DecodeBlocks(line)
		if err != nil {
			updates <- inspectMsg{err: err}
			continue
		}

		select {
		case updates <- inspectMsg{blocks: blocks}:
		case <-ctx.Done():
			return
		}
	}
}

// streamDoneMsg is sent when the generator stream has ended.
type streamDoneMsg struct{}

// waitForUpdate waits for the next stream update.
func waitForUpdate(updates <-chan inspectMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return streamDoneMsg{}
		}
		return msg
	}
}

// inspectModel holds the state for the Bubble Tea inspect view.
type inspectModel struct {
	command     string
	updates     <-chan inspectMsg
	header      *protocol.Header
	blocks      []protocol.Block
	updateCount int
	err         error
	done        bool
	windowWidth int
}

func newInspectModel(command string, updates <-chan inspectMsg) inspectModel {
	return inspectModel{
		command: command,
		updates: updates,
	}
}

// Init implements the Bubble Tea init method.
func (m inspectModel) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update implements the Bubble Tea update method.
func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case inspectMsg:
		if msg.header != nil {
			m.header = msg.header
		}
		if msg.blocks != nil {
			m.blocks = msg.blocks
			m.updateCount++
		}
		m.err = msg.err
		return m, waitForUpdate(m.updates)

	case streamDoneMsg:
		m.done = true
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method.
func (m inspectModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("barpipe inspect")

	info := fmt.Sprintf("generator: %s | updates: %d", m.command, m.updateCount)
	if m.header != nil {
		info += fmt.Sprintf(" | protocol v%d", m.header.Version)
	}

	var body string
	switch {
	case m.done:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("\n  Generator exited.\n")
	case len(m.blocks) == 0:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("\n  Waiting for the first status line...\n")
	default:
		body = "\n" + m.renderBlocks() + "\n"
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Controls: [q] Quit")

	sections := []string{title, info, body}
	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("error: %v", m.err)))
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBlocks renders the current status line one cell per block,
// honoring block colors and the urgent flag.
func (m inspectModel) renderBlocks() string {
	cells := make([]string, 0, len(m.blocks))

	for _, block := range m.blocks {
		style := lipgloss.NewStyle().Padding(0, 1)
		if block.Color != nil {
			style = style.Foreground(lipgloss.Color(*block.Color))
		}
		if block.Urgent != nil && *block.Urgent {
			style = style.Bold(true).Foreground(lipgloss.Color("196"))
		}
		cells = append(cells, style.Render(block.FullText))
	}

	line := strings.Join(cells, lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render("|"))

	return "  " + line
}
