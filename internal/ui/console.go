package ui

import (
	"fmt"
	"io"
	"sync"
)

// Console writes status lines to one writer, serialized
type Console struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewConsole creates a console writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{writer: w}
}

// Print writes a message to the console with synchronization
func (c *Console) Print(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.writer, msg)
}

// Printf writes a formatted message to the console with synchronization
func (c *Console) Printf(format string, args ...interface{}) {
	c.Print(fmt.Sprintf(format, args...))
}

// Println writes a message with newline to the console with synchronization
func (c *Console) Println(msg string) {
	c.Print(msg + "\n")
}

func (c *Console) Success(format string, args ...interface{}) {
	c.Println(Success(fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...interface{}) {
	c.Println(Error(fmt.Sprintf(format, args...)))
}

func (c *Console) Warning(format string, args ...interface{}) {
	c.Println(Warning(fmt.Sprintf(format, args...)))
}

func (c *Console) Next(format string, args ...interface{}) {
	c.Println(Next(fmt.Sprintf(format, args...)))
}
