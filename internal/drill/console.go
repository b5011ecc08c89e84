package drill

import (
	"bufio"
	"fmt"
	"io"
)

// LineIO is the line-based terminal capability the runner needs.
type LineIO interface {
	ReadLine() (string, error)
	WriteLine(line string) error
}

// Console implements LineIO over a reader and a writer.
type Console struct {
	scanner *bufio.Scanner
	w       io.Writer
}

// NewConsole wraps r and w. Reads are split on newlines.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{scanner: bufio.NewScanner(r), w: w}
}

// ReadLine blocks until a full line is available. It returns io.EOF once input is exhausted.
func (c *Console) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return c.scanner.Text(), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// WriteLine writes line followed by a newline.
func (c *Console) WriteLine(line string) error {
	_, err := fmt.Fprintln(c.w, line)
	return err
}
