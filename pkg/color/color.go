package color

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

var (
	output       = termenv.NewOutput(os.Stdout)
	colorEnabled = true
)

func init() {
	if termenv.EnvNoColor() || output.Profile == termenv.Ascii {
		colorEnabled = false
	}
}

func EnableColor(enable bool) {
	colorEnabled = enable
	if enable && output.Profile == termenv.Ascii {
		output = termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.ANSI))
	}
}

func Colorize(c termenv.Color, text string) string {
	if !colorEnabled {
		return text
	}
	return output.String(text).Foreground(output.Profile.Convert(c)).String()
}

func BrightRedText(text string) string {
	return Colorize(termenv.ANSIBrightRed, text)
}

func GreenText(text string) string {
	return Colorize(termenv.ANSIGreen, text)
}

func CyanText(text string) string {
	return Colorize(termenv.ANSICyan, text)
}

func GrayText(text string) string {
	return Colorize(termenv.ANSIBrightBlack, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return output.String(text).Bold().String()
}

func Error(message string) string {
	if !colorEnabled {
		return message
	}
	return BrightRedText("Error: ") + message
}

func Position(fn string, index, offset int) string {
	pos := fmt.Sprintf("%s@%d (offset %d)", fn, index, offset)
	if !colorEnabled {
		return pos
	}
	return CyanText(pos)
}

func ErrorWithPosition(fn string, index, offset int, message, context string) string {
	if !colorEnabled {
		return fmt.Sprintf("Error at %s: %s\n%s", Position(fn, index, offset), message, context)
	}

	return fmt.Sprintf("%s at %s: %s\n%s",
		BrightRedText(BoldText("Error")),
		Position(fn, index, offset),
		message,
		GrayText(context))
}
