package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	helpIndent = "  "
	// Below this many description columns the wide two-column layout is
	// abandoned for the condensed one.
	minDescriptionColumns = 25
	fallbackColumns       = 80
)

// Option is one usage/description pair in the help output.
type Option struct {
	Usage       string
	Description string
}

// SchemaOptions renders the flag schema into help options, in schema order.
func SchemaOptions() []Option {
	options := make([]Option, 0, len(Schema))
	for _, flag := range Schema {
		options = append(options, Option{Usage: flagUsage(flag), Description: flag.Description})
	}
	return options
}

func flagUsage(flag Flag) string {
	var b strings.Builder
	if flag.Shorthand != "" {
		fmt.Fprintf(&b, "-%s, ", flag.Shorthand)
	}
	fmt.Fprintf(&b, "--%s", flag.Name)
	if flag.Kind == KindString {
		fmt.Fprintf(&b, " <%s>", flag.Placeholder)
	}
	return b.String()
}

// FormatOptions lays the options out in two columns sized to the given width,
// word-wrapping descriptions. Narrow widths fall back to a condensed layout
// with the usage and the unwrapped description on separate lines.
func FormatOptions(options []Option, columns int) string {
	usageWidth := 0
	for _, opt := range options {
		if w := len(opt.Usage); w > usageWidth {
			usageWidth = w
		}
	}
	usageWidth += 2 // gutter between columns

	descriptionColumns := columns - usageWidth - len(helpIndent)
	if descriptionColumns < minDescriptionColumns {
		return formatCondensed(options)
	}

	var b strings.Builder
	for _, opt := range options {
		lines := wrapText(opt.Description, descriptionColumns)
		fmt.Fprintf(&b, "%s%-*s%s\n", helpIndent, usageWidth, opt.Usage, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(&b, "%s%*s%s\n", helpIndent, usageWidth, "", line)
		}
	}
	return b.String()
}

func formatCondensed(options []Option) string {
	var b strings.Builder
	for _, opt := range options {
		fmt.Fprintf(&b, "%s%s\n%s%s%s\n", helpIndent, opt.Usage, helpIndent, helpIndent, opt.Description)
	}
	return b.String()
}

// wrapText greedily wraps text into lines of at most width columns. Words
// longer than the width get a line of their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

// TerminalWidth reports the width of stdout, or the 80-column fallback when
// stdout is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallbackColumns
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return fallbackColumns
	}
	return width
}

// HelpText renders the complete usage message for the given executable name.
func HelpText(executable string, columns int) string {
	var b strings.Builder
	b.WriteString("Veneer - editor command line interface\n\n")
	fmt.Fprintf(&b, "Usage: %s [options] [paths...]\n\n", executable)
	b.WriteString("Options:\n")
	b.WriteString(FormatOptions(SchemaOptions(), columns))
	return b.String()
}
