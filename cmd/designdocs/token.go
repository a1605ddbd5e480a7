package main

import (
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/tokens"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Design-token naming tools",
	}
	cmd.AddCommand(tokenNameCmd(), tokenCategoriesCmd())
	return cmd
}

func tokenNameCmd() *cobra.Command {
	var (
		prefix   string
		format   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "name",
		Short: "Build a design-token name",
		Long: `Build a token name from its parts:

  component-property-element-variant-state

Without any part flags the builder's default name is printed. A
--category preset fills property and element.

Examples:
  designdocs token name
  designdocs token name --component=chip --property=color --element=text
  designdocs token name --component=card --category=shadows --format=css --prefix=ds`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Same query semantics as the /tools/token-name form.
			q := url.Values{}
			for _, part := range tokens.PartNames {
				if cmd.Flags().Changed(part) {
					v, _ := cmd.Flags().GetString(part)
					q.Set(part, v)
				}
			}
			if category != "" {
				q.Set("category", category)
			}
			n, err := catalog.BuilderName(q)
			if err != nil {
				return err
			}
			name, err := n.Build()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "name":
				fmt.Fprintln(w, name)
			case "css":
				fmt.Fprintln(w, n.CSSVar(prefix))
			case "js":
				fmt.Fprintln(w, n.JSPath())
			case "all":
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "name\t%s\n", name)
				fmt.Fprintf(tw, "css\t%s\n", n.CSSVar(prefix))
				fmt.Fprintf(tw, "js\t%s\n", n.JSPath())
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q (want name, css, js or all)", format)
			}
			return nil
		},
	}

	for _, part := range tokens.PartNames {
		cmd.Flags().String(part, "", "Token "+part)
	}
	cmd.Flags().StringVar(&category, "category", "", "Category preset ("+categoryLabels()+")")
	cmd.Flags().StringVar(&prefix, "prefix", "", "CSS custom property prefix, e.g. ds")
	cmd.Flags().StringVarP(&format, "format", "f", "name", "Output: name, css, js or all")

	return cmd
}

func tokenCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tPROPERTY\tELEMENT")
			for _, c := range tokens.Categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label, c.Property, c.Element)
			}
			return tw.Flush()
		},
	}
}

func categoryLabels() string {
	labels := make([]string, len(tokens.Categories))
	for i, c := range tokens.Categories {
		labels[i] = strings.ToLower(c.Label)
	}
	return strings.Join(labels, ", ")
}
