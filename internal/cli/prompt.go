package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/rs/zerolog/log"
)

// PromptForInstruction asks for the edit instruction on out and reads one
// line from in. A preset or quick-edit id (or label) typed at the prompt is
// expanded to its full text. Blank input returns "".
func PromptForInstruction(in io.Reader, out io.Writer) string {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Describe the change (or type a preset name):")
	for _, p := range prompt.Presets {
		fmt.Fprintf(out, "  %-20s %s\n", p.ID, p.Label)
	}
	for _, q := range prompt.QuickEdits {
		fmt.Fprintf(out, "  %-20s %s\n", q.ID, q.Label)
	}
	fmt.Fprint(out, "Instruction (optional with a reference image): ")

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		if err != io.EOF {
			log.Warn().Err(err).Msg("Failed to read instruction")
		}
		return ""
	}

	input = strings.TrimSpace(input)
	if text, err := prompt.Resolve(input); err == nil {
		return text
	}
	return input
}
