package main

import (
	"cmp"

	"github.com/spf13/cobra"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/internal/json"
)

type termOutput struct {
	IRI       string          `json:"@id"`
	Reverse   bool            `json:"@reverse,omitempty"`
	Type      string          `json:"@type,omitempty"`
	Container []string        `json:"@container,omitempty"`
	Language  string          `json:"@language,omitempty"`
	Direction string          `json:"@direction,omitempty"`
	Index     string          `json:"@index,omitempty"`
	Nest      string          `json:"@nest,omitempty"`
	Prefix    bool            `json:"@prefix,omitempty"`
	Protected bool            `json:"@protected,omitempty"`
	Context   json.RawMessage `json:"@context,omitempty"`
}

type contextOutput struct {
	Base      string                `json:"@base,omitempty"`
	Vocab     string                `json:"@vocab,omitempty"`
	Language  string                `json:"@language,omitempty"`
	Direction string                `json:"@direction,omitempty"`
	Terms     map[string]termOutput `json:"terms"`
}

func newContextOutput(c *ld.Context) contextOutput {
	res := contextOutput{
		Terms: map[string]termOutput{},
	}
	if c == nil {
		return res
	}

	res.Base = c.BaseIRI()
	res.Vocab = c.Vocab()
	res.Language = c.DefaultLanguage()
	res.Direction = c.DefaultDirection()

	for name, def := range c.Terms() {
		res.Terms[name] = termOutput{
			IRI:       def.IRI,
			Reverse:   def.Reverse,
			Type:      def.Type,
			Container: def.Container.Keywords(),
			Language:  def.Language,
			Direction: def.Direction,
			Index:     def.Index,
			Nest:      def.Nest,
			Prefix:    def.Prefix,
			Protected: def.Protected,
			Context:   def.Context,
		}
	}

	return res
}

func (a *app) contextCmd() *cobra.Command {
	var (
		format string
		docURL string
	)

	cmd := &cobra.Command{
		Use:   "context [file|url|-]",
		Short: "Process a context and print its term definitions",
		Long: `Process a context and print the resulting term definitions as JSON.

The input is either a context document holding an @context entry, or the
value of such an entry.`,
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

			local := doc
			if json.IsMap(doc) {
				var obj json.Object
				if err := json.Unmarshal(doc, &obj); err != nil {
					return err
				}
				if c, ok := obj[ld.KeywordContext]; ok {
					local = c
				}
			}

			proc, err := a.processor()
			if err != nil {
				return err
			}

			res, err := proc.Context(cmd.Context(), local, cmp.Or(docURL, retrievedFrom))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(newContextOutput(res), "", "  ")
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&format, "format", "", "input format: json or yaml (default from file extension, else json)")
	f.StringVar(&docURL, "url", "", "URL the context was retrieved from")

	return cmd
}
