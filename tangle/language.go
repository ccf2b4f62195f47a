package tangle

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
)

//go:embed languages.yaml
var defaultLanguages []byte

// DefaultLanguagesYAML returns the embedded default language table.
func DefaultLanguagesYAML() []byte { return bytes.Clone(defaultLanguages) }

// Predefined language table errors.
var (
	ErrLanguage       = NewError("language table error")
	ErrLanguageDecode = ErrLanguage.kindOf("decode language table")
	ErrLanguageFunc   = ErrLanguage.kindOf("invalid function pattern")
	ErrLanguageHeader = ErrLanguage.kindOf("invalid header expression")
)

// Placement values for doc comments.
const (
	PlaceBefore = "before"
	PlaceAfter  = "after"
)

// Language describes the comment syntax of one output language.
type Language struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions,omitempty"`
	Line       string   `yaml:"line,omitempty"`
	Open       string   `yaml:"open,omitempty"`
	During     string   `yaml:"during,omitempty"`
	Close      string   `yaml:"close,omitempty"`
	Func       string   `yaml:"func,omitempty"`
	Placement  string   `yaml:"placement,omitempty"`
	Header     string   `yaml:"header,omitempty"`

	fn     *regexp.Regexp
	header *vm.Program
}

// Languages is a table of [Language] entries indexed by name and extension.
type Languages struct {
	Header string      `yaml:"header,omitempty"`
	List   []*Language `yaml:"languages"`

	byName map[string]*Language
	byExt  map[string]*Language
}

// DefaultLanguages returns the embedded language table.
func DefaultLanguages(ctx context.Context) (*Languages, error) {
	return ParseLanguages(ctx, bytes.NewReader(defaultLanguages))
}

// ParseLanguages decodes a YAML language table from r and compiles its
// function patterns and header expressions.
func ParseLanguages(ctx context.Context, r io.Reader) (*Languages, error) {
	var langs Languages

	if err := yaml.NewDecoder(r).DecodeContext(ctx, &langs); err != nil &&
		err != io.EOF {
		return nil, ErrLanguageDecode.Wrap(err)
	}

	if err := langs.compile(); err != nil {
		return nil, err
	}

	return &langs, nil
}

func (l *Languages) compile() error {
	l.byName = make(map[string]*Language, len(l.List))
	l.byExt = map[string]*Language{}

	for _, lang := range l.List {
		if err := lang.compile(l.Header); err != nil {
			return err
		}

		l.byName[lang.Name] = lang

		for _, ext := range lang.Extensions {
			l.byExt[ext] = lang
		}
	}

	return nil
}

func (lang *Language) compile(header string) error {
	lang.fn, lang.header = nil, nil

	if lang.Header != "" {
		header = lang.Header
	}

	if lang.Func != "" {
		fn, err := regexp.Compile(lang.Func)
		if err != nil {
			return ErrLanguageFunc.With(slog.String("language", lang.Name)).
				Wrap(err)
		}

		if fn.SubexpIndex("name") < 0 {
			return ErrLanguageFunc.With(
				slog.String("language", lang.Name),
				slog.String("missing", "name"),
			)
		}

		lang.fn = fn
	}

	if header != "" {
		program, err := expr.Compile(
			header,
			expr.Env(headerEnv("", "", "")),
			expr.AsKind(reflect.String),
		)
		if err != nil {
			return ErrLanguageHeader.With(slog.String("language", lang.Name)).
				Wrap(err)
		}

		lang.header = program
	}

	return nil
}

// Merge returns a table holding every language of l, replaced or extended by
// the languages of o with the same name.
func (l *Languages) Merge(o *Languages) *Languages {
	if o == nil {
		return l
	}

	out := &Languages{Header: l.Header}
	if o.Header != "" {
		out.Header = o.Header
	}

	index := map[string]int{}

	for _, src := range [][]*Language{l.List, o.List} {
		for _, lang := range src {
			c := *lang

			if i, ok := index[c.Name]; ok {
				out.List[i] = &c

				continue
			}

			index[c.Name] = len(out.List)
			out.List = append(out.List, &c)
		}
	}

	// Every entry compiled once already, so errors cannot occur here.
	_ = out.compile()

	return out
}

// Lookup returns the language named name.
func (l *Languages) Lookup(name string) (*Language, bool) {
	lang, ok := l.byName[name]

	return lang, ok
}

// Detect returns the language for an output file, chosen by tag first and
// file extension second, or nil.
func (l *Languages) Detect(file, tag string) *Language {
	if l == nil {
		return nil
	}

	if lang, ok := l.byName[tag]; ok && tag != "" {
		return lang
	}

	if lang, ok := l.byExt[filepath.Ext(file)]; ok {
		return lang
	}

	return nil
}

func headerEnv(comment, source, file string) map[string]any {
	return map[string]any{
		"comment": comment,
		"source":  source,
		"file":    file,
	}
}

// HeaderLine evaluates the language's header expression for the given
// document and output file names.
func (lang *Language) HeaderLine(source, file string) (string, bool, error) {
	if lang == nil || lang.header == nil {
		return "", false, nil
	}

	mark := lang.Line
	if mark == "" {
		if lang.Open == "" {
			return "", false, nil
		}

		mark = lang.Open
	}

	out, err := expr.Run(lang.header, headerEnv(mark, source, file))
	if err != nil {
		return "", false, ErrLanguageHeader.
			With(slog.String("language", lang.Name)).Wrap(err)
	}

	s, _ := out.(string)
	if lang.Line == "" {
		s += " " + strings.TrimSpace(lang.Close)
	}

	return s, true, nil
}

// FuncName returns the name of the function declared on line, if any.
func (lang *Language) FuncName(line string) (string, bool) {
	if lang == nil || lang.fn == nil {
		return "", false
	}

	m := lang.fn.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	name := m[lang.fn.SubexpIndex("name")]

	return name, name != ""
}

// Comment turns lines of prose into comment lines, each prefixed by indent.
// The returned source numbers parallel the returned lines.
func (lang *Language) Comment(prose []Line, indent string) []Line {
	if lang == nil || len(prose) == 0 {
		return nil
	}

	out := make([]Line, 0, len(prose)+2)

	if lang.Line != "" {
		for _, p := range prose {
			text := strings.TrimRight(indent+lang.Line+" "+p.Text, " \t")
			out = append(out, Line{Text: text, Src: p.Src})
		}

		return out
	}

	if lang.Open == "" {
		return nil
	}

	out = append(out, Line{Text: indent + lang.Open, Src: prose[0].Src})

	for _, p := range prose {
		text := strings.TrimRight(indent+lang.During+p.Text, " \t")
		out = append(out, Line{Text: text, Src: p.Src})
	}

	return append(out, Line{
		Text: indent + lang.Close,
		Src:  prose[len(prose)-1].Src,
	})
}
