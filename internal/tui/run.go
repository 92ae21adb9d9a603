package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zarlcorp/zrows/internal/dataset"
)

// Run generates opts while rendering progress to out. It returns once
// generation has finished or stopped, whichever way the view ended.
func Run(ctx context.Context, version string, opts dataset.Options, in io.Reader, out io.Writer) (dataset.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(version, opts.Path, opts.TotalRows, cancel)
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))

	box := newMailbox()
	next := opts.Progress
	opts.Progress = func(pr dataset.Progress) {
		if next != nil {
			next(pr)
		}
		box.post(pr)
	}

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for pr := range box.ch {
			p.Send(progressMsg(pr))
		}
	}()

	result := make(chan doneMsg, 1)
	go func() {
		sum, err := dataset.Generate(ctx, opts)
		box.close()
		<-forwarded
		done := doneMsg{summary: sum, err: err}
		result <- done
		p.Send(done)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		res := <-result
		if res.err != nil {
			return res.summary, res.err
		}
		return res.summary, fmt.Errorf("progress view: %w", err)
	}

	res := <-result
	return res.summary, res.err
}

// mailbox holds at most one pending update. Posting never blocks: a stale
// update is replaced by the newer one.
type mailbox struct {
	ch chan dataset.Progress
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan dataset.Progress, 1)}
}

// post must only be called from a single goroutine.
func (b *mailbox) post(p dataset.Progress) {
	for {
		select {
		case b.ch <- p:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

func (b *mailbox) close() {
	close(b.ch)
}
