package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ftahirops/ptop/ui"
)

func newKeysCmd() *cobra.Command {
	var raw bool
	c := &cobra.Command{
		Use:   "keys",
		Short: "Print the key bindings of the process list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md := keysMarkdown(ui.DefaultRegistry())
			out := cmd.OutOrStdout()
			if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
				_, err := fmt.Fprint(out, md)
				return err
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			rendered, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render key bindings: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	c.Flags().BoolVar(&raw, "raw", false, "print plain markdown")
	return c
}

// keysMarkdown lists every binding of r as a markdown table.
func keysMarkdown(r *ui.Registry) string {
	var b strings.Builder
	b.WriteString("# ptop key bindings\n\n| Keys | Action |\n|---|---|\n")
	for _, bind := range r.Bindings() {
		h := bind.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	return b.String()
}
