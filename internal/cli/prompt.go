package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter asks the operator questions on a terminal.
type Prompter struct {
	Reader *bufio.Reader
	Writer io.Writer
}

// DefaultPrompter reads stdin and writes to stdout.
func DefaultPrompter() *Prompter {
	return &Prompter{
		Reader: bufio.NewReader(os.Stdin),
		Writer: os.Stdout,
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Anything but an explicit yes declines.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.Writer, "%s [y/N]: ", prompt)
	answer, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Int asks for an integer until one is entered.
func (p *Prompter) Int(prompt string) (int, error) {
	for {
		fmt.Fprintf(p.Writer, "%s: ", prompt)
		answer, err := p.readLine()
		if err != nil {
			return 0, fmt.Errorf("read answer: %w", err)
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.Writer, "Error: %q is not a valid integer.\n", answer)
	}
}
