package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultLightTheme = "github"
	DefaultDarkTheme  = "github-dark"
)

var themeCSSCache sync.Map

// ChromaCSS styles highlighted README code for both color schemes.
func ChromaCSS() template.CSS {
	css, err := ThemeCSS(DefaultLightTheme, DefaultDarkTheme)
	if err != nil {
		return ""
	}
	return css
}

// ThemeCSS builds class-based highlight rules for a light and a dark chroma
// style, switched by prefers-color-scheme. Results are cached per pair.
func ThemeCSS(light string, dark string) (template.CSS, error) {
	key := light + "|" + dark
	if cached, ok := themeCSSCache.Load(key); ok {
		return cached.(template.CSS), nil
	}

	lightCSS, err := styleCSS(light)
	if err != nil {
		return "", err
	}
	darkCSS, err := styleCSS(dark)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	out.WriteString("@media (prefers-color-scheme: light) {\n")
	out.Write(lightCSS)
	out.WriteString("}\n@media (prefers-color-scheme: dark) {\n")
	out.Write(darkCSS)
	out.WriteString("}\n")

	css := template.CSS(out.String())
	themeCSSCache.Store(key, css)
	return css, nil
}

func styleCSS(name string) ([]byte, error) {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	if err := newCodeFormatter().WriteCSS(&buffer, style); err != nil {
		return nil, fmt.Errorf("chroma css for %q: %w", name, err)
	}
	return buffer.Bytes(), nil
}

// newCodeFormatter is shared by block rendering and ThemeCSS so emitted
// classes always have rules.
func newCodeFormatter() *chromahtml.Formatter {
	return chromahtml.New(chromahtml.WithClasses(true))
}
