package print

import (
	"os"
	"text/tabwriter"
)

func NewTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 4, ' ', 0)
}
