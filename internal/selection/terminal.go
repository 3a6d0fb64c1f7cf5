package selection

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	apperrors "equitybins/internal/errors"
)

// TerminalSelector prompts for the factor and bin count on a line-oriented
// terminal. Empty answers take the defaults.
type TerminalSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalSelector creates a selector reading answers from in and writing prompts to out
func NewTerminalSelector(in io.Reader, out io.Writer) *TerminalSelector {
	return &TerminalSelector{in: bufio.NewReader(in), out: out}
}

// StdinIsTerminal reports whether os.Stdin is attached to a terminal
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Select implements Selector
func (s *TerminalSelector) Select(ctx context.Context, opts Options) (Selection, error) {
	fmt.Fprintln(s.out, "Available factors:")
	for i, f := range opts.Factors {
		marker := ""
		if f == opts.DefaultFactor {
			marker = " (default)"
		}
		fmt.Fprintf(s.out, "  %2d. %s%s\n", i+1, f, marker)
	}
	fmt.Fprintf(s.out, "Please enter the factor name or number. Default is %s.\n> ", opts.DefaultFactor)

	answer, err := s.readLine(ctx)
	if err != nil {
		return Selection{}, err
	}
	factor := resolveFactor(answer, opts)

	fmt.Fprintf(s.out, "Please enter the number of bins. Default is %d.\n> ", opts.DefaultBins)
	answer, err = s.readLine(ctx)
	if err != nil {
		return Selection{}, err
	}

	bins := opts.DefaultBins
	if answer != "" {
		bins, err = strconv.Atoi(answer)
		if err != nil {
			return Selection{}, apperrors.NewAppError(apperrors.ErrTypeInvalidSelection,
				fmt.Sprintf("bin count %q is not an integer", answer), err).
				WithContext("bins", answer)
		}
	}

	return Selection{Factor: factor, Bins: bins}, nil
}

// resolveFactor maps a 1-based list number to its factor; anything else is taken as a name
func resolveFactor(answer string, opts Options) string {
	if answer == "" {
		return opts.DefaultFactor
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(opts.Factors) {
		return opts.Factors[n-1]
	}
	return answer
}

func (s *TerminalSelector) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", apperrors.NewAppError(apperrors.ErrTypeInvalidSelection, "failed to read answer", err)
	}
	return strings.TrimSpace(line), nil
}
