package main

import (
	"fmt"
	"os"

	"github.com/pthm/flight/lib/dom"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

var (
	queryText  bool
	queryCount bool
)

var queryCmd = &cobra.Command{
	Use:   "query <file> <selector>",
	Short: "Print the elements matching a CSS or XPath selector",
	Long: `Print the elements of an HTML file matching a selector.

Selectors starting with "/", "./" or "(" are XPath; anything else is CSS.`,
	Example: `  flight query page.html "#inbox .item"
  flight query --text page.html "//li[@class='item']"`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryText, "text", false, "print text content instead of markup")
	queryCmd.Flags().BoolVarP(&queryCount, "count", "c", false, "print only the number of matches")
}

func runQuery(cmd *cobra.Command, args []string) error {
	doc, err := parseFile(args[0])
	if err != nil {
		return err
	}
	sel, err := doc.Select(args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if queryCount {
		fmt.Fprintln(out, sel.Len())
		return nil
	}
	sel.Each(func(_ int, n *html.Node) {
		one := doc.Wrap(n)
		if queryText {
			fmt.Fprintln(out, one.Text())
			return
		}
		fmt.Fprintln(out, one.OuterHTML())
	})
	return nil
}

func parseFile(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}
