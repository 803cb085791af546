package render

import (
	"fmt"

	"github.com/sangkips/invex-billing/internal/domain/enum"
)

// Renderer turns a composed document into bytes of one format
type Renderer interface {
	Render(doc Document) ([]byte, error)
	Format() enum.DocumentFormat
}

// Registry picks a renderer by format
type Registry struct {
	renderers map[enum.DocumentFormat]Renderer
}

func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[enum.DocumentFormat]Renderer, len(renderers))}
	for _, rr := range renderers {
		r.renderers[rr.Format()] = rr
	}
	return r
}

// NewDefaultRegistry registers the HTML, PDF and receipt renderers. width
// is the receipt width in characters.
func NewDefaultRegistry(width int) *Registry {
	return NewRegistry(NewHTMLRenderer(), NewPDFRenderer(), NewReceiptRenderer(width))
}

func (r *Registry) Render(format enum.DocumentFormat, doc Document) ([]byte, error) {
	rr, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("render: no renderer for format %q", format)
	}
	return rr.Render(doc)
}

func (r *Registry) Supports(format enum.DocumentFormat) bool {
	_, ok := r.renderers[format]
	return ok
}
