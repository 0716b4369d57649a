package main

import (
	"fmt"
	"io"
	"os"
)

// Printer receives a command's output one line at a time.
type Printer interface {
	PrintLine(line string)
}

// StdoutPrinter writes lines to an io.Writer, os.Stdout by default.
type StdoutPrinter struct {
	W io.Writer
}

// PrintLine implements Printer.
func (p StdoutPrinter) PrintLine(line string) {
	w := p.W
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, line)
}

// BufferedPrinter keeps lines in memory.
type BufferedPrinter struct {
	Lines []string
}

// PrintLine implements Printer.
func (p *BufferedPrinter) PrintLine(line string) {
	p.Lines = append(p.Lines, line)
}

// Reset discards the buffered lines.
func (p *BufferedPrinter) Reset() {
	p.Lines = nil
}
