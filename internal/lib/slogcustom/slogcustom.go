package slogcustom

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// CustomHandler пишет записи slog в одну строку с подсветкой уровня и ключей.
type CustomHandler struct {
	mu     *sync.Mutex
	l      *log.Logger
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string // группы через точку
}

func NewCustomHandler(out io.Writer, level slog.Leveler) *CustomHandler {
	return &CustomHandler{
		mu:    &sync.Mutex{},
		l:     log.New(out, "", 0),
		level: level,
	}
}

func (c *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.HiBlueString(level)
	default:
		level = color.MagentaString(level)
	}

	var sb strings.Builder
	for _, a := range c.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, c.prefix, a)
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	c.l.Println(
		r.Time.Format("15:04:05.000"),
		level,
		r.Message,
		strings.TrimSuffix(sb.String(), " "),
	)
	return nil
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, group, ga)
		}
		return
	}

	sb.WriteString(color.GreenString(prefix + a.Key))
	sb.WriteString("=")
	sb.WriteString(fmt.Sprint(a.Value.Any()))
	sb.WriteString(" ")
}

func (c *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return c
	}

	h := *c
	h.attrs = make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	h.attrs = append(h.attrs, c.attrs...)
	for _, a := range attrs {
		if c.prefix != "" {
			a.Key = c.prefix + a.Key
		}
		h.attrs = append(h.attrs, a)
	}
	return &h
}

func (c *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}

	h := *c
	h.prefix = c.prefix + name + "."
	return &h
}

func (c *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}
