package components

import (
    "bytes"
    "context"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestWorkspacePanelIdle(t *testing.T) {
    buf := &bytes.Buffer{}
    require.NoError(t, WorkspacePanel(Workspace{State: "idle", Foreground: "#000000", Background: "#FFFFFF"}).Render(context.Background(), buf))

    out := buf.String()
    assert.Contains(t, out, `id="workspace"`)
    assert.NotContains(t, out, "Generate QR Code")
    assert.NotContains(t, out, "Download SVG")
}

func TestWorkspacePanelGenerated(t *testing.T) {
    buf := &bytes.Buffer{}
    ws := Workspace{
        Text:        `<b>hi</b>`,
        State:       "generated",
        Foreground:  "#000000",
        Background:  "#FFFFFF",
        Transparent: true,
        Preview:     `<?xml version="1.0" encoding="UTF-8"?><svg viewBox="0 0 29 29"></svg>`,
    }
    require.NoError(t, WorkspacePanel(ws).Render(context.Background(), buf))

    out := buf.String()
    assert.Contains(t, out, "Generate QR Code")
    assert.Contains(t, out, `href="/api/session/export/png"`)
    assert.Contains(t, out, `<svg viewBox="0 0 29 29"></svg>`)
    assert.NotContains(t, out, "<?xml")
    assert.NotContains(t, out, "<b>hi</b>")
    assert.Contains(t, out, `name="transparent" checked`)
}

func TestWorkspacePanelGenerateButtonFollowsText(t *testing.T) {
    for _, state := range []string{"editing", "generated"} {
        buf := &bytes.Buffer{}
        require.NoError(t, WorkspacePanel(Workspace{Text: "HELLO", State: state}).Render(context.Background(), buf))
        assert.Contains(t, buf.String(), `hx-post="/api/session/generate"`, state)
    }
}

func TestToastUnknownVariantFallsBack(t *testing.T) {
    buf := &bytes.Buffer{}
    require.NoError(t, Toast(ToastProps{Title: "x", Variant: "bogus", Duration: 2000}).Render(context.Background(), buf))
    assert.Contains(t, buf.String(), "bg-green-600")
    assert.Contains(t, buf.String(), `data-duration="2000"`)
    assert.NotContains(t, buf.String(), "&times;")
}

func TestHomePage(t *testing.T) {
    buf := &bytes.Buffer{}
    require.NoError(t, HomePage(Workspace{State: "idle"}).Render(context.Background(), buf))
    assert.True(t, strings.HasPrefix(buf.String(), "<!doctype html>"))
    assert.Contains(t, buf.String(), `id="workspace"`)
}

func TestToast(t *testing.T) {
    buf := &bytes.Buffer{}
    require.NoError(t, Toast(ToastProps{Title: "Too long", Description: "<x>", Variant: ToastError, Dismissible: true}).Render(context.Background(), buf))

    out := buf.String()
    assert.Contains(t, out, "bg-red-600")
    assert.NotContains(t, out, "bg-gray-800")
    assert.Contains(t, out, "&lt;x&gt;")
    assert.Contains(t, out, "&times;")
}
