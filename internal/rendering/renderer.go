package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"
)

// Renderer renders gomponents nodes, either to bytes for HTMX fragments or as a
// full page response.
type Renderer interface {
	// RenderComponent renders a component to a slice of bytes.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes a component as the HTML body of the response.
	RenderPage(c echo.Context, status int, component any) error
}

// NodeRenderer is the echo.Renderer used by the server.
type NodeRenderer struct{}

// NewNodeRenderer creates a new NodeRenderer instance.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{}
}

func (r *NodeRenderer) render(component any, w io.Writer) error {
	node, ok := component.(cmp.Node)
	if !ok {
		return fmt.Errorf("unsupported component type: %T. Component must implement gomponents.Node", component)
	}
	return node.Render(w)
}

// RenderComponent implements the Renderer interface.
func (r *NodeRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface for full HTTP responses. The
// body is rendered first so a failing component still yields an error status.
func (r *NodeRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		c.Logger().Error("Failed to render component: ", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements the echo.Renderer interface for use with c.Render(status, name, component).
// The name is ignored; the component is passed as data.
func (r *NodeRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.render(data, w)
}
