package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Capture lee un campo de texto y entrega el valor confirmado a un callback.
// El gesto de confirmación es el fin de línea (Enter): una llamada por línea.
type Capture struct {
	logger   *zap.Logger
	reader   *bufio.Reader
	onCommit func(string)
	prompt   io.Writer
	label    string
}

// NewCapture construye un Capture sobre r. onCommit es el único punto de configuración.
func NewCapture(logger *zap.Logger, r io.Reader, onCommit func(string)) *Capture {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capture{
		logger:   logger,
		reader:   bufio.NewReader(r),
		onCommit: onCommit,
	}
}

// WithLabel escribe label en w antes de cada lectura, como la etiqueta del campo.
func (c *Capture) WithLabel(w io.Writer, label string) *Capture {
	c.prompt = w
	c.label = label
	return c
}

// Run lee hasta EOF o hasta que ctx se cancele entre dos líneas.
// Una última línea sin salto al llegar a EOF no se confirma.
func (c *Capture) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.prompt != nil && c.label != "" {
			fmt.Fprint(c.prompt, c.label)
		}

		line, err := c.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if line != "" {
					c.logger.Debug("discarding uncommitted input", zap.Int("len", len(line)))
				}
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		c.commit(trimLineEnding(line))
	}
}

func (c *Capture) commit(value string) {
	if c.onCommit == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("commit callback panicked", zap.Any("panic", r))
		}
	}()
	c.onCommit(value)
}

// trimLineEnding quita solo el terminador; el resto del texto pasa intacto.
func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
