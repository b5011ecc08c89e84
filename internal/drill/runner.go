// Package drill runs an interactive arithmetic session.
package drill

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// ErrInputClosed is returned when input ends before a question is answered.
var ErrInputClosed = errors.New("input closed before the question was answered")

const wrongAnswerText = "WRONG!"

var (
	wrongStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	notNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// QuestionSource produces the next question to ask.
type QuestionSource interface {
	Generate() model.Question
}

// Runner drives a fixed number of questions, retrying each until it is answered correctly.
type Runner struct {
	io  LineIO
	gen QuestionSource
	now func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New constructs a Runner.
func New(lineIO LineIO, gen QuestionSource, opts ...Option) *Runner {
	r := &Runner{io: lineIO, gen: gen, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run asks count questions in order and returns one result per question.
func (r *Runner) Run(count int) ([]model.Result, error) {
	results := make([]model.Result, 0, count)
	for i := 1; i <= count; i++ {
		if err := r.io.WriteLine(headerStyle.Render(fmt.Sprintf("# %d:", i))); err != nil {
			return nil, fmt.Errorf("failed to write question header: %w", err)
		}
		res, err := r.Ask(r.gen.Generate())
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Ask prompts for q until the parsed answer equals q.Expected.
// Non-numeric input is reported and does not count as an error.
func (r *Runner) Ask(q model.Question) (model.Result, error) {
	start := r.now()
	errorCount := 0
	for {
		if err := r.io.WriteLine(q.Prompt()); err != nil {
			return model.Result{}, fmt.Errorf("failed to write prompt: %w", err)
		}
		line, err := r.io.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return model.Result{}, ErrInputClosed
			}
			return model.Result{}, fmt.Errorf("failed to read answer: %w", err)
		}
		answer, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			msg := fmt.Sprintf("Not a number %s. Try again", line)
			if werr := r.io.WriteLine(notNumberStyle.Render(msg)); werr != nil {
				return model.Result{}, fmt.Errorf("failed to write message: %w", werr)
			}
			continue
		}
		if answer == q.Expected {
			break
		}
		errorCount++
		if err := r.io.WriteLine(wrongStyle.Render(wrongAnswerText)); err != nil {
			return model.Result{}, fmt.Errorf("failed to write message: %w", err)
		}
	}
	elapsed := r.now().Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return model.Result{
		Question:   q,
		ErrorCount: errorCount,
		TimeSec:    elapsed,
	}, nil
}
