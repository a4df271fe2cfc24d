package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"sourcery.dny.nu/ldexpand/internal/json"
)

// readDocument reads a JSON or YAML document from a file, an HTTP(S) URL or
// stdin when arg is empty or "-". It returns the URL the document was
// retrieved from, if any.
func (a *app) readDocument(ctx context.Context, in io.Reader, arg string, format string) (json.RawMessage, string, error) {
	var (
		data   []byte
		docURL string
		err    error
	)

	switch {
	case arg == "" || arg == "-":
		data, err = io.ReadAll(in)
		if err != nil {
			return nil, "", errors.Wrap(err, "reading stdin")
		}
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		if a.v.GetBool("offline") {
			return nil, "", errors.Newf("cannot retrieve %s while offline", arg)
		}

		h, err := a.httpLoader()
		if err != nil {
			return nil, "", err
		}

		doc, err := h.LoadContext(ctx, arg)
		if err != nil {
			return nil, "", err
		}
		data, docURL = doc.Content, doc.URL
	default:
		data, err = os.ReadFile(arg)
		if err != nil {
			return nil, "", errors.Wrapf(err, "reading %s", arg)
		}
		if format == "" {
			switch filepath.Ext(arg) {
			case ".yaml", ".yml":
				format = "yaml"
			}
		}
	}

	res, err := decodeDocument(data, format)
	if err != nil {
		return nil, "", err
	}
	return res, docURL, nil
}

func decodeDocument(data []byte, format string) (json.RawMessage, error) {
	switch format {
	case "", "json":
		res, err := json.Normalize(data)
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON document")
		}
		return res, nil
	case "yaml":
		return yamlToJSON(data)
	default:
		return nil, errors.Newf("unknown input format %q", format)
	}
}

// yamlToJSON converts a YAML document to JSON. Mapping keys keep the order
// they have in the source.
func yamlToJSON(data []byte) (json.RawMessage, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid YAML document")
	}
	if doc.Kind == 0 {
		return json.RawMessage(`null`), nil
	}

	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, &doc); err != nil {
		return nil, errors.Wrap(err, "YAML document can't be represented as JSON")
	}
	return json.RawMessage(buf.Bytes()), nil
}

func writeYAMLNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeYAMLNode(buf, n.Alias)
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	default:
		return errors.Newf("unsupported YAML node kind %d", n.Kind)
	}
}
