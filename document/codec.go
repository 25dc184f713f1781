package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oassplit/internal/pathutil"
	"github.com/erraggy/oassplit/oaserrors"
)

// Format is a serialization format.
type Format string

const (
	// FormatJSON is JSON with two-space indentation.
	FormatJSON Format = "json"
	// FormatYAML is block-style YAML.
	FormatYAML Format = "yaml"
	// FormatUnknown means the format could not be determined.
	FormatUnknown Format = ""
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatUnknown, fmt.Errorf("document: unknown format %q (want json or yaml)", s)
}

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

// DetectFormat sniffs content: JSON starts with '{' or '['.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	source string
	logger Logger
}

// WithSource names the input in errors and log entries.
func WithSource(name string) DecodeOption {
	return func(c *decodeConfig) { c.source = name }
}

// WithDecodeLogger sets the logger used for decode warnings.
func WithDecodeLogger(l Logger) DecodeOption {
	return func(c *decodeConfig) { c.logger = LoggerOrNop(l) }
}

// maxDepth bounds nesting, which also stops runaway alias expansion.
const maxDepth = 2048

// Decode parses JSON or YAML into a Document. JSON is decoded through the
// YAML parser since it is a YAML subset, so format only matters for error
// text. Key order is preserved everywhere.
func Decode(data []byte, format Format, opts ...DecodeOption) (*Document, error) {
	cfg := decodeConfig{logger: NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if format == FormatUnknown {
		format = DetectFormat(data)
	}
	v, err := decodeValue(data, cfg.source)
	if err != nil {
		return nil, err
	}
	root, ok := v.AsObject()
	if !ok {
		return nil, &oaserrors.DecodeError{Path: cfg.source, Message: fmt.Sprintf("root must be a mapping, got %s", v.Kind())}
	}
	doc, err := FromRoot(root)
	if err != nil {
		var decErr *oaserrors.DecodeError
		if errors.As(err, &decErr) {
			decErr.Path = cfg.source
		}
		return nil, err
	}
	if doc.VersionKey == "" {
		cfg.logger.Warn("document has no openapi or swagger version field", "source", cfg.source, "format", string(format))
	}
	return doc, nil
}

// DecodeValue parses JSON or YAML into a Value without interpreting it.
func DecodeValue(data []byte) (Value, error) {
	return decodeValue(data, "")
}

func decodeValue(data []byte, source string) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, &oaserrors.DecodeError{Path: source, Message: "input is empty"}
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, &oaserrors.DecodeError{Path: source, Cause: err}
	}
	v, err := nodeToValue(&node, 0)
	if err != nil {
		return Value{}, &oaserrors.DecodeError{Path: source, Line: node.Line, Message: err.Error()}
	}
	return v, nil
}

type nodeError struct {
	line int
	msg  string
}

func (e *nodeError) Error() string {
	if e.line > 0 {
		return fmt.Sprintf("line %d: %s", e.line, e.msg)
	}
	return e.msg
}

func nodeToValue(n *yaml.Node, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, &nodeError{line: n.Line, msg: "nesting too deep"}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return nodeToValue(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Null(), nil
		}
		return nodeToValue(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := nodeToValue(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		return mappingToValue(n, depth)
	case yaml.ScalarNode:
		return scalarToValue(n), nil
	}
	return Value{}, &nodeError{line: n.Line, msg: "unsupported node kind"}
}

func mappingToValue(n *yaml.Node, depth int) (Value, error) {
	obj := NewObject()
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
			keyNode = keyNode.Alias
		}
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return Value{}, &nodeError{line: keyNode.Line, msg: "mapping keys must be scalars"}
		}
		v, err := nodeToValue(valNode, depth+1)
		if err != nil {
			return Value{}, err
		}
		obj.Set(keyNode.Value, v)
	}
	// Explicit keys take precedence over merged ones.
	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			v, err := nodeToValue(src, depth+1)
			if err != nil {
				return Value{}, err
			}
			merged, ok := v.AsObject()
			if !ok {
				return Value{}, &nodeError{line: src.Line, msg: "merge value must be a mapping"}
			}
			for k, mv := range merged.All() {
				if !obj.Has(k) {
					obj.Set(k, mv)
				}
			}
		}
	}
	return ObjectValue(obj), nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func scalarToValue(n *yaml.Node) Value {
	switch n.ShortTag() {
	case "!!null":
		return Null()
	case "!!bool":
		return Bool(strings.EqualFold(n.Value, "true"))
	case "!!int":
		if jsonNumber.MatchString(n.Value) {
			return Number(n.Value)
		}
		if i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64); err == nil {
			return Number(strconv.FormatInt(i, 10))
		}
	case "!!float":
		if jsonNumber.MatchString(n.Value) {
			return Number(n.Value)
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64); err == nil {
			if s := strconv.FormatFloat(f, 'g', -1, 64); jsonNumber.MatchString(s) {
				return Number(s)
			}
		}
	}
	return String(n.Value)
}

// FromRoot builds a Document from a decoded root object. A missing version
// field is allowed; the resulting VersionKey is empty.
func FromRoot(root *Object) (*Document, error) {
	doc := New("", "")
	doc.Info = nil
	if v, ok := root.Get(VersionKeyOpenAPI); ok {
		doc.VersionKey = VersionKeyOpenAPI
		doc.Version = scalarText(v)
	} else if v, ok := root.Get(VersionKeySwagger); ok {
		doc.VersionKey = VersionKeySwagger
		doc.Version = scalarText(v)
	}
	oas2 := doc.IsOAS2()
	for key, v := range root.All() {
		switch {
		case key == doc.VersionKey:
		case key == "info":
			info, ok := v.AsObject()
			if !ok {
				return nil, &oaserrors.DecodeError{Message: "info must be a mapping"}
			}
			doc.Info = info
		case key == "paths":
			if err := doc.decodePaths(v); err != nil {
				return nil, err
			}
		case !oas2 && key == pathutil.ComponentsRoot:
			if err := doc.decodeComponents(v); err != nil {
				return nil, err
			}
		case oas2 && pathutil.IsCategory(key, true):
			if _, ok := v.AsObject(); !ok {
				return nil, &oaserrors.DecodeError{Message: key + " must be a mapping"}
			}
			doc.Components.Set(key, v)
		default:
			doc.Extra.Set(key, v)
		}
	}
	return doc, nil
}

func scalarText(v Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if s, ok := v.NumberLiteral(); ok {
		return s
	}
	return ""
}

func (d *Document) decodePaths(v Value) error {
	if v.IsNull() {
		return nil
	}
	paths, ok := v.AsObject()
	if !ok {
		return &oaserrors.DecodeError{Message: "paths must be a mapping"}
	}
	for path, raw := range paths.All() {
		item := &PathItem{Path: path, Shared: NewObject()}
		d.Paths = append(d.Paths, item)
		if raw.IsNull() {
			continue
		}
		fields, ok := raw.AsObject()
		if !ok {
			return &oaserrors.DecodeError{Message: fmt.Sprintf("path item %s must be a mapping", path)}
		}
		for key, fv := range fields.All() {
			if !IsMethod(key) {
				item.Shared.Set(key, fv)
				continue
			}
			body, ok := fv.AsObject()
			if !ok {
				return &oaserrors.DecodeError{Message: fmt.Sprintf("operation %s %s must be a mapping", strings.ToUpper(key), path)}
			}
			item.Operations = append(item.Operations, &Operation{Path: path, Method: key, Body: body})
		}
	}
	return nil
}

func (d *Document) decodeComponents(v Value) error {
	comps, ok := v.AsObject()
	if !ok {
		return &oaserrors.DecodeError{Message: "components must be a mapping"}
	}
	for key, cv := range comps.All() {
		if !pathutil.IsCategory(key, false) {
			d.ComponentsExtra.Set(key, cv)
			continue
		}
		if cv.IsNull() {
			continue
		}
		if _, ok := cv.AsObject(); !ok {
			return &oaserrors.DecodeError{Message: "components." + key + " must be a mapping"}
		}
		d.Components.Set(key, cv)
	}
	return nil
}

// Encode serializes the document.
func Encode(doc *Document, format Format) ([]byte, error) {
	return EncodeValue(ObjectValue(doc.Root()), format)
}

// EncodeValue serializes any Value. JSON output uses two-space indentation
// and a trailing newline.
func EncodeValue(v Value, format Format) ([]byte, error) {
	if format == FormatYAML {
		out, err := yaml.Marshal(valueToNode(v))
		if err != nil {
			return nil, fmt.Errorf("document: encoding yaml: %w", err)
		}
		return out, nil
	}
	var compact bytes.Buffer
	if err := writeJSON(&compact, v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("document: encoding json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the value as compact JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if !jsonNumber.MatchString(v.str) {
			return fmt.Errorf("document: invalid number literal %q", v.str)
		}
		buf.WriteString(v.str)
	case KindString:
		writeJSONString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for k, mv := range v.obj.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := writeJSON(buf, mv); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// writeJSONString escapes like encoding/json without HTML escaping, so
// descriptions containing <, > or & survive unchanged.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\u2028', '\u2029':
			buf.WriteString(`\u202`)
			buf.WriteByte(hexDigits[r&0xF])
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[r>>4])
				buf.WriteByte(hexDigits[r&0xF])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func valueToNode(v Value) *yaml.Node {
	switch v.kind {
	case KindBool:
		return scalarNode("!!bool", strconv.FormatBool(v.b))
	case KindNumber:
		if strings.ContainsAny(v.str, ".eE") {
			return scalarNode("!!float", v.str)
		}
		return scalarNode("!!int", v.str)
	case KindString:
		return scalarNode("!!str", v.str)
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(v.arr))}
		for _, item := range v.arr {
			node.Content = append(node.Content, valueToNode(item))
		}
		return node
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, 2*v.obj.Len())}
		for k, mv := range v.obj.All() {
			node.Content = append(node.Content, scalarNode("!!str", k), valueToNode(mv))
		}
		return node
	}
	return scalarNode("!!null", "null")
}
