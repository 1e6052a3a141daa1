package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhConfirm is the rich confirmation surface: a modal form rendered by huh.
type HuhConfirm struct {
	deviceName string
	open       bool
}

func NewHuhConfirm() *HuhConfirm { return &HuhConfirm{} }

func (c *HuhConfirm) Open(deviceName string) {
	c.deviceName = deviceName
	c.open = true
}

// Resolve runs the modal and reports the user's answer. With nothing open it
// answers false, which the workflow treats as cancel.
func (c *HuhConfirm) Resolve() bool {
	if !c.open {
		return false
	}
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete device %q?", c.deviceName)).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}

func (c *HuhConfirm) Close() {
	c.open = false
	c.deviceName = ""
}

// StdinConfirm is the degraded surface: a blocking y/N prompt. Functionally
// equivalent to the modal, used when no rich terminal is available.
type StdinConfirm struct {
	in         *bufio.Reader
	out        io.Writer
	deviceName string
	open       bool
}

func NewStdinConfirm(in io.Reader, out io.Writer) *StdinConfirm {
	return &StdinConfirm{in: bufio.NewReader(in), out: out}
}

func (c *StdinConfirm) Open(deviceName string) {
	c.deviceName = deviceName
	c.open = true
}

func (c *StdinConfirm) Resolve() bool {
	if !c.open {
		return false
	}
	fmt.Fprintf(c.out, "Delete device %q? [y/N] ", c.deviceName)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *StdinConfirm) Close() {
	c.open = false
	c.deviceName = ""
}
