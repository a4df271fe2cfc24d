package main

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/token"
	"iter"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/internal/json"
)

const (
	xsdPrefix  = "http://www.w3.org/2001/XMLSchema#"
	xsdPrefixS = "https://www.w3.org/2001/XMLSchema#"
)

func (a *app) vocabgenCmd() *cobra.Command {
	var (
		docIRI    string
		namespace string
		pkgName   string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "vocabgen <context file>",
		Short: "Generate Go constants for the terms of a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "reading %s", args[0])
			}

			var rawCtx json.Object
			if err := json.Unmarshal(data, &rawCtx); err != nil {
				return errors.Wrapf(err, "decoding %s", args[0])
			}

			proc, err := a.processor()
			if err != nil {
				return err
			}

			src, err := generateVocab(cmd.Context(), proc, rawCtx[ld.KeywordContext], docIRI, namespace, pkgName)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			return os.WriteFile(output, src, 0o644)
		},
	}

	f := cmd.Flags()
	f.StringVar(&docIRI, "iri", "", "remote context IRI for this file")
	f.StringVar(&namespace, "namespace", "", "namespace used by terms in this context")
	f.StringVar(&pkgName, "package", "vocab", "Go package name")
	f.StringVarP(&output, "output", "o", "", "file to write to (default stdout)")
	_ = cmd.MarkFlagRequired("namespace")

	return cmd
}

func generateVocab(
	ctx context.Context,
	proc *ld.Processor,
	local json.RawMessage,
	docIRI string,
	namespace string,
	pkgName string,
) ([]byte, error) {
	res, err := proc.Context(ctx, local, docIRI)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("context defines no terms")
	}

	var result bytes.Buffer
	result.WriteString("package " + pkgName + "\n\n")

	result.WriteString("// IRI is the remote context IRI.\n")
	result.WriteString("const IRI = \"" + docIRI + "\"\n\n")

	result.WriteString("// Namespace is the IRI prefix used for terms defined in this context that don't\n// map to a different namespace.\n")
	if docIRI != "" && strings.HasPrefix(namespace, docIRI) {
		result.WriteString("const Namespace = IRI + \"" + strings.TrimPrefix(namespace, docIRI) + "\"\n\n")
	} else {
		result.WriteString("const Namespace = \"" + namespace + "\"\n\n")
	}

	terms, err := makeTerms(ctx, proc, docIRI, namespace, res.Terms(), map[string]struct{}{})
	if err != nil {
		return nil, err
	}
	slices.Sort(terms)

	result.WriteString("const (\n")
	for _, v := range terms {
		result.WriteString(v)
	}
	result.WriteString(")\n")

	src, err := format.Source(result.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "formatting generated code")
	}
	return src, nil
}

func makeTerms(
	ctx context.Context,
	proc *ld.Processor,
	documentURL string,
	namespace string,
	terms iter.Seq2[string, ld.Term],
	seen map[string]struct{},
) ([]string, error) {
	texts := make([]string, 0, 100)
	scoped := make(map[string]ld.Term, 20)

	for term, def := range terms {
		if def.Prefix || strings.HasPrefix(def.IRI, "@") || def.IRI == "" {
			continue
		}

		goTerm := goName(term, def.Context != nil)
		if !token.IsIdentifier(goTerm) {
			continue
		}
		if _, ok := seen[goTerm]; ok {
			continue
		}
		seen[goTerm] = struct{}{}

		text := "\t// " + goTerm + " " + describe(goTerm, def)
		if strings.HasPrefix(def.IRI, namespace) {
			texts = append(texts, text+"\t"+goTerm+" = Namespace + \""+strings.TrimPrefix(def.IRI, namespace)+"\"\n")
		} else {
			texts = append(texts, text+"\t"+goTerm+" = \""+def.IRI+"\"\n")
		}

		if def.Context != nil {
			nctx, err := proc.Context(ctx, def.Context, documentURL)
			if err != nil {
				return nil, errors.Wrapf(err, "scoped context of %s", term)
			}
			if nctx != nil {
				maps.Insert(scoped, nctx.Terms())
			}
		}
	}

	if len(scoped) != 0 {
		more, err := makeTerms(ctx, proc, documentURL, namespace, maps.All(scoped), seen)
		if err != nil {
			return nil, err
		}
		texts = append(texts, more...)
	}
	return texts, nil
}

func describe(goTerm string, def ld.Term) string {
	switch {
	case strings.HasPrefix(goTerm, "Type"):
		return "is a possible value for the type property.\n"
	case strings.HasPrefix(goTerm, "Relationship") && goTerm != "Relationship":
		return "is a possible value for a relationship property.\n"
	case def.Type == ld.KeywordID:
		return "is an IRI, either as a string or as an object with an\n// id property.\n"
	case def.Type == ld.KeywordJSON:
		return "is a JSON value that will be left untouched.\n"
	case def.Type != "" && def.Context == nil:
		if !strings.HasPrefix(def.Type, xsdPrefix) && !strings.HasPrefix(def.Type, xsdPrefixS) {
			return "is a " + def.Type + ".\n"
		}

		typ := strings.TrimPrefix(strings.TrimPrefix(def.Type, xsdPrefix), xsdPrefixS)
		switch typ {
		case "float":
			typ += ", an IEEE single-precision 32-bit floating point\n// value equivalent to a Go float32"
		case "integer":
			typ += ", an \"infinite size\" integer. A Go int64 may be\n// sufficient depending on your usage. JSON numbers only hold up to\n// 53-bit precision integers, bigger values need a string"
		case "nonNegativeInteger":
			typ += ", an \"infinite size\" integer. A Go uint64 may be\n// sufficient depending on your usage. JSON numbers only hold up to\n// 53-bit precision integers, bigger values need a string"
		case "dateTime":
			typ += ", equivalent to a time.Date in RFC3339Nano"
		case "duration":
			typ += " and does not have a Go equivalent, but\n// can be handled as a string"
		}
		return "is an xml:" + typ + ".\n"
	case def.Context != nil:
		return "is an object.\n"
	default:
		return "is a string.\n"
	}
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

func goName(s string, isObject bool) string {
	if len(s) == 0 {
		return ""
	}

	mapped := s
	if strings.HasPrefix(mapped, "id") || strings.HasPrefix(mapped, "Id") {
		mapped = "ID" + mapped[2:]
	}
	if strings.HasSuffix(mapped, "id") || strings.HasSuffix(mapped, "Id") {
		mapped = mapped[:len(mapped)-2] + "ID"
	}

	mapped = strings.ReplaceAll(mapped, "url", "URL")
	mapped = strings.ReplaceAll(mapped, "Url", "URL")
	mapped = strings.ReplaceAll(mapped, "ttl", "TTL")

	if isUpper(s) && !isObject {
		prefix := "Type"
		if strings.HasPrefix(s, "Is") {
			prefix = "Relationship"
		}
		return fmt.Sprintf("%s%s", prefix, mapped)
	}

	r, size := utf8.DecodeRuneInString(mapped)
	return string(unicode.ToTitle(r)) + mapped[size:]
}
