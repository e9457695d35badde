package dom

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
)

// Render builds a document from a templ component's output.
//
// Component engines attach behavior to markup; they do not produce it. This
// is the bridge for markup that is produced server side with templ:
//
//	doc, err := dom.Render(ctx, pages.Dashboard(user))
//	reg := flight.NewRegistry(doc)
func Render(ctx context.Context, c templ.Component) (*Document, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("dom: render: %w", err)
	}
	return Parse(&buf)
}
