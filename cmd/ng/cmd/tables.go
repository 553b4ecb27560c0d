package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ngcli/ng/internal/generations"
)

// renderGenerations writes gens as an aligned table: generation number,
// build date, NixOS/home-manager version, kernel version, specialisations,
// and a marker for the currently active generation.
func renderGenerations(w io.Writer, gens []generations.Info) {
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	defer tw.Flush()

	io.WriteString(tw, "GEN\tDATE\tNIXOS VERSION\tKERNEL\tSPECIALISATIONS\tCURRENT\n")
	for _, g := range gens {
		current := ""
		if g.Current {
			current = "*"
		}
		date := ""
		if !g.BuildDate.IsZero() {
			date = g.BuildDate.Format("2006-01-02 15:04:05")
		}
		specs := "-"
		if len(g.Specialisations) > 0 {
			specs = joinComma(g.Specialisations)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", g.Number, date, g.NixosVersion, g.KernelVersion, specs, current)
	}
}

func joinComma(ss []string) string {
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}
