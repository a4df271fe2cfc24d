package main

import (
	"cmp"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/internal/json"
)

func (a *app) expandCmd() *cobra.Command {
	var (
		format        string
		docURL        string
		expandContext string
		compact       bool
	)

	cmd := &cobra.Command{
		Use:   "expand [file|url|-]",
		Short: "Expand a JSON-LD document",
		Long: `Expand a JSON-LD document to expanded document form.

Examples:
  ldexpand expand note.jsonld
  ldexpand expand --format yaml note.yaml
  curl -s https://example.org/note | ldexpand expand --url https://example.org/note -
  ldexpand expand --offline --preload https://www.w3.org/ns/activitystreams=as.jsonld note.jsonld`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}

			doc, retrievedFrom, err := a.readDocument(cmd.Context(), cmd.InOrStdin(), arg, format)
			if err != nil {
				return err
			}

			var extra []ld.ProcessorOption
			if expandContext != "" {
				data, err := os.ReadFile(expandContext)
				if err != nil {
					return errors.Wrap(err, "reading expand context")
				}
				extra = append(extra, ld.WithExpandContext(data))
			}

			proc, err := a.processor(extra...)
			if err != nil {
				return err
			}

			nodes, err := proc.Expand(cmd.Context(), doc, cmp.Or(docURL, retrievedFrom))
			if err != nil {
				if code := ld.Code(err); code != "" {
					return errors.Wrapf(err, "expansion failed [%s]", code)
				}
				return errors.Wrap(err, "expansion failed")
			}

			var out []byte
			if compact {
				out, err = json.Marshal(nodes)
			} else {
				out, err = json.MarshalIndent(nodes, "", "  ")
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&format, "format", "", "input format: json or yaml (default from file extension, else json)")
	f.StringVar(&docURL, "url", "", "URL the document was retrieved from")
	f.StringVar(&expandContext, "expand-context", "", "file holding a context to apply before the document's own")
	f.BoolVar(&compact, "compact-output", false, "write the result on a single line")

	return cmd
}
