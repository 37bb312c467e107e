package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"histmatch/internal/histogram"
	"histmatch/internal/matcher"
)

const invalidArgument = "invalid argument"

// Selection is one set of answers to the prompt.
type Selection struct {
	QuerySet int
	Match    matcher.Config
}

// Prompter asks for query set, histogram mode, interval and grid. A wrong
// answer anywhere prints "invalid argument" and starts over.
type Prompter struct {
	scanner   *bufio.Scanner
	out       io.Writer
	defaults  matcher.Config
	querySets int

	once  sync.Once
	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

func NewPrompter(in io.Reader, out io.Writer, defaults matcher.Config, querySets int) *Prompter {
	return &Prompter{
		scanner:   bufio.NewScanner(in),
		out:       out,
		defaults:  defaults,
		querySets: querySets,
	}
}

// Next returns the next valid selection. io.EOF means the input ended or the
// user typed q at the query set prompt. Canceling ctx unblocks a pending
// read.
func (p *Prompter) Next(ctx context.Context) (Selection, error) {
	for {
		sel, err := p.ask(ctx)
		if err == nil {
			return sel, nil
		}
		if !errors.Is(err, histogram.ErrInvalidConfig) {
			return Selection{}, err
		}
		fmt.Fprintln(p.out, invalidArgument)
	}
}

func (p *Prompter) ask(ctx context.Context) (Selection, error) {
	sel := Selection{Match: p.defaults}

	answer, err := p.readLine(ctx, fmt.Sprintf("query set (1-%d, q to quit): ", p.querySets))
	if err != nil {
		return sel, err
	}
	if answer == "q" || answer == "quit" {
		return sel, io.EOF
	}
	if sel.QuerySet, err = ParseQuerySet(answer, p.querySets); err != nil {
		return sel, err
	}

	if answer, err = p.readLine(ctx, "histogram (p: per-channel, c: joint-color): "); err != nil {
		return sel, err
	}
	if sel.Match.Mode, err = matcher.ParseMode(answer); err != nil {
		return sel, err
	}

	if answer, err = p.readLine(ctx, fmt.Sprintf("interval [%d]: ", p.defaults.Interval)); err != nil {
		return sel, err
	}
	if sel.Match.Interval, err = ParseInterval(answer, p.defaults.Interval); err != nil {
		return sel, err
	}

	if answer, err = p.readLine(ctx, fmt.Sprintf("grid [%s]: ", gridLabel(p.defaults.GridCount))); err != nil {
		return sel, err
	}
	if sel.Match.GridCount, err = ParseGrid(answer, p.defaults.GridCount); err != nil {
		return sel, err
	}

	if err := sel.Match.Validate(); err != nil {
		return sel, err
	}

	return sel, nil
}

func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	p.once.Do(p.startReader)
	fmt.Fprint(p.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.ToLower(strings.TrimSpace(res.text)), nil
	}
}

// startReader scans input on its own goroutine so a blocked read does not
// hold up cancellation. The goroutine ends with the input.
func (p *Prompter) startReader() {
	p.lines = make(chan lineResult)
	go func() {
		defer close(p.lines)
		for p.scanner.Scan() {
			p.lines <- lineResult{text: p.scanner.Text()}
		}
		if err := p.scanner.Err(); err != nil {
			p.lines <- lineResult{err: err}
		}
	}()
}

func gridLabel(grid int) string {
	if grid == 0 {
		return "none"
	}
	return strconv.Itoa(grid)
}

func ParseQuerySet(s string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > count {
		return 0, &histogram.ValidationError{
			Context: "prompt",
			Field:   "query set",
			Value:   s,
			Reason:  fmt.Sprintf("must be between 1 and %d", count),
		}
	}
	return n, nil
}

// ParseInterval returns def for an empty answer. Range and divisibility are
// checked by histogram.ValidateInterval.
func ParseInterval(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &histogram.ValidationError{
			Context: "prompt",
			Field:   "interval",
			Value:   s,
			Reason:  "must be an integer",
		}
	}
	return n, histogram.ValidateInterval(n)
}

// ParseGrid returns def for an empty answer and 0 for "none".
func ParseGrid(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "none", "no", "n":
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &histogram.ValidationError{
			Context: "prompt",
			Field:   "grid",
			Value:   s,
			Reason:  "must be an integer or none",
		}
	}
	return n, histogram.ValidateGridCount(n)
}
