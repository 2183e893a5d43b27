package components

// Workspace is what the QR editor shows for one session.
type Workspace struct {
    Text        string
    State       string
    Foreground  string
    Background  string
    Transparent bool
    // Preview is the current SVG document, empty until generated.
    Preview string
}

// Generated reports whether downloads should be offered.
func (w Workspace) Generated() bool { return w.State == "generated" }

// ToastVariant selects the toast color scheme.
type ToastVariant string

const (
    ToastSuccess ToastVariant = "success"
    ToastError   ToastVariant = "error"
    ToastWarning ToastVariant = "warning"
    ToastInfo    ToastVariant = "info"
)

// ToastProps configures a toast notification.
type ToastProps struct {
    Title       string
    Description string
    Variant     ToastVariant
    Duration    int
    Dismissible bool
}
