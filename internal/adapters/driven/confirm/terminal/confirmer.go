// Package terminal provides an interactive confirmation step for
// outbound literature queries.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure Confirmer implements the interface.
var _ driven.QueryConfirmer = (*Confirmer)(nil)

// Confirmer asks a human to approve an outbound query on the terminal.
//
// The prompt shows only the sanitised keywords, never document content.
// When stdin is not a terminal the query is rejected: unattended runs
// must opt in explicitly via AutoApprove rather than leak by default.
type Confirmer struct {
	in          io.Reader
	out         io.Writer
	autoApprove bool
	interactive bool
}

// Option configures a Confirmer.
type Option func(*Confirmer)

// WithAutoApprove approves every query without prompting. Intended for
// scripted runs where the operator accepts outbound traffic up front.
func WithAutoApprove() Option {
	return func(c *Confirmer) {
		c.autoApprove = true
	}
}

// withStreams overrides the terminal streams. Test hook.
func withStreams(in io.Reader, out io.Writer, interactive bool) Option {
	return func(c *Confirmer) {
		c.in = in
		c.out = out
		c.interactive = interactive
	}
}

// NewConfirmer creates a terminal confirmer.
func NewConfirmer(opts ...Option) *Confirmer {
	c := &Confirmer{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F9E2AF")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9E2AF"))

	queryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4"))
)

// Confirm blocks until the query is approved or rejected. Context
// cancellation, EOF and non-interactive stdin all resolve to Rejected.
func (c *Confirmer) Confirm(ctx context.Context, query domain.SafeQuery) domain.GuardDecision {
	if c.autoApprove {
		logger.Debug("Outbound query auto-approved: %q", query.String())
		return domain.GuardApproved
	}

	if !c.interactive {
		logger.Warn("Cannot confirm outbound query without a terminal, rejecting")
		return domain.GuardRejected
	}

	panel := panelStyle.Render(
		titleStyle.Render("Outbound literature query") + "\n" +
			queryStyle.Render(query.String()),
	)
	fmt.Fprintf(c.out, "%s\nSend this query to the literature provider? [y/N]: ", panel)

	answers := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(c.in).ReadString('\n')
		if err != nil {
			answers <- ""
			return
		}
		answers <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		logger.Warn("Confirmation timed out, query rejected")
		return domain.GuardRejected
	case answer := <-answers:
		if answer == "y" || answer == "yes" {
			return domain.GuardApproved
		}
		return domain.GuardRejected
	}
}
