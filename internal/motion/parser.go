package motion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Policy decides what happens to a malformed line inside a block of input.
type Policy int

const (
	// PolicyAbort stops at the first malformed line and returns its error.
	PolicyAbort Policy = iota
	// PolicySkip logs and records malformed lines, then keeps parsing.
	PolicySkip
)

// ErrUnknownPolicy is returned by ParsePolicy for names it does not know.
var ErrUnknownPolicy = errors.New("unknown parse policy")

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a config or flag value ("abort", "skip") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyAbort, fmt.Errorf("%w: %q (valid: abort, skip)", ErrUnknownPolicy, s)
	}
}

// Parser reads a block of motion lines.
type Parser struct {
	policy  Policy
	logger  *zap.Logger
	skipped []*ParseError
}

// NewParser creates a Parser. A nil logger is replaced with a no-op logger.
func NewParser(policy Policy, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{policy: policy, logger: logger}
}

// ParseAll reads r line by line and returns the motions in input order.
// Blank lines are ignored. Under PolicyAbort the first malformed line is
// returned as a *ParseError and no motions are returned.
func (p *Parser) ParseAll(r io.Reader) ([]Motion, error) {
	p.skipped = nil

	var motions []Motion
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		m, err := Parse(line)
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				return nil, err
			}
			perr.Line = lineNo

			if p.policy == PolicyAbort {
				return nil, perr
			}
			p.logger.Warn("Skipping malformed motion",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(perr.Err))
			p.skipped = append(p.skipped, perr)
			continue
		}
		motions = append(motions, m)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read motions: %w", err)
	}

	p.logger.Debug("Parsed motions",
		zap.Int("lines", lineNo),
		zap.Int("motions", len(motions)),
		zap.Int("skipped", len(p.skipped)))
	return motions, nil
}

// Skipped returns the malformed lines dropped by the last ParseAll call
// under PolicySkip.
func (p *Parser) Skipped() []*ParseError {
	out := make([]*ParseError, len(p.skipped))
	copy(out, p.skipped)
	return out
}

// ParseString is a convenience for parsing an in-memory block with PolicyAbort.
func ParseString(s string) ([]Motion, error) {
	return NewParser(PolicyAbort, nil).ParseAll(strings.NewReader(s))
}
