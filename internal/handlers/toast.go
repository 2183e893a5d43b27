package handlers

import (
    "net/http"

    "github.com/cristianadrielbraun/qrforge/web/components"
    "github.com/gin-gonic/gin"
)

func toastVariant(variant string) components.ToastVariant {
    switch variant {
    case "error", "destructive":
        return components.ToastError
    case "warning":
        return components.ToastWarning
    case "info":
        return components.ToastInfo
    default:
        return components.ToastSuccess
    }
}

// GenericToast returns a Toast component rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
    props := components.ToastProps{
        Title:       c.PostForm("title"),
        Description: c.PostForm("description"),
        Variant:     toastVariant(c.PostForm("variant")),
        Duration:    2000,
        Dismissible: c.PostForm("dismissible") == "on",
    }

    c.Header("Content-Type", "text/html; charset=utf-8")
    c.Status(http.StatusOK)
    _ = components.Toast(props).Render(c.Request.Context(), c.Writer)
}

// errorToast answers an HTMX request with an error toast appended to
// #toasts and leaves the workspace untouched. htmx only swaps 2xx
// responses, so the status stays 200.
func (h *Handler) errorToast(c *gin.Context, title, description string) {
    c.Header("Content-Type", "text/html; charset=utf-8")
    c.Header("HX-Retarget", "#toasts")
    c.Header("HX-Reswap", "beforeend")
    c.Status(http.StatusOK)
    _ = components.Toast(components.ToastProps{
        Title:       title,
        Description: description,
        Variant:     components.ToastError,
        Duration:    4000,
        Dismissible: true,
    }).Render(c.Request.Context(), c.Writer)
}
