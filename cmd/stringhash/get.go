package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newGetCmd(g *globalFlags) *cobra.Command {
	f := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "get <file> <key>...",
		Short: "Load a key/value file and print the values of keys",
		Long: `The get command loads a key/value file like load does, then prints
the value of each named key. A key that is not present prints <absent>;
that is not an error.

Example:
  stringhash get pairs.txt alpha beta
  stringhash get pairs.txt alpha --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, g); err != nil {
				return err
			}
			t, _, err := loadFile(g, args[0])
			if err != nil {
				return err
			}
			defer t.Destroy()

			w := cmd.OutOrStdout()
			if g.jsonOut {
				values := make(map[string]*string, len(args)-1)
				for _, k := range args[1:] {
					if v, ok := t.Get(k); ok {
						values[k] = &v
					} else {
						values[k] = nil
					}
				}
				return printJSON(w, values)
			}
			for _, k := range args[1:] {
				v, ok := t.Get(k)
				if !ok {
					g.printInfo(w, "%s: <absent>\n", k)
					continue
				}
				g.printInfo(w, "%s: %s\n", k, strconv.Quote(v))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
