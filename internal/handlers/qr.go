package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cristianadrielbraun/qrforge/internal/compose"
	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/hexcolor"
	"github.com/cristianadrielbraun/qrforge/internal/qr"
	"github.com/cristianadrielbraun/qrforge/internal/session"
	"github.com/cristianadrielbraun/qrforge/web/components"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "qrforge_session"
	// maxTextLen caps request size; the encoder rejects long text anyway.
	maxTextLen = 8192
)

// parseBool treats checkbox values ("on") and common truthy strings as true.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// controller returns the caller's session controller, issuing a cookie
// for new sessions.
func (h *Handler) controller(c *gin.Context) *session.Controller {
	id, _ := c.Cookie(sessionCookie)
	newID, ctrl := h.sessions.Get(id)
	if newID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, newID, 0, "/", "", c.Request.TLS != nil, true)
	}
	return ctrl
}

func workspace(ctrl *session.Controller) components.Workspace {
	s := ctrl.Snapshot()
	ws := components.Workspace{
		Text:        s.Text,
		State:       s.State.String(),
		Foreground:  s.Config.Foreground,
		Background:  s.Config.Background,
		Transparent: s.Config.Transparent,
	}
	if s.State == session.Generated {
		if doc, err := ctrl.Document(); err == nil {
			ws.Preview = string(doc)
		}
	}
	return ws
}

// respond renders the workspace fragment for HTMX and JSON otherwise.
func (h *Handler) respond(c *gin.Context, ctrl *session.Controller) {
	ws := workspace(ctrl)
	if isHTMX(c) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		_ = components.WorkspacePanel(ws).Render(c.Request.Context(), c.Writer)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":        ws.Text,
		"state":       ws.State,
		"foreground":  ws.Foreground,
		"background":  ws.Background,
		"transparent": ws.Transparent,
	})
}

// statusFor maps pipeline errors to an HTTP status and a user message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, qr.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "Text is too long to fit in a QR code"
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrTextChanged):
		return http.StatusConflict, "Another request for this QR code is still running"
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict, "Enter some text and generate a QR code first"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "Request was cancelled"
	case errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, "Format must be svg or png"
	case errors.Is(err, compose.ErrSurfaceCreationFailed), errors.Is(err, compose.ErrImageDecodeFailed):
		return http.StatusInternalServerError, "Failed to render QR code image"
	default:
		return http.StatusInternalServerError, "Failed to create QR code"
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	if isHTMX(c) {
		h.errorToast(c, msg, err.Error())
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	if isHTMX(c) {
		h.errorToast(c, "Invalid input", err.Error())
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// HomePage renders the editor for the caller's session.
func (h *Handler) HomePage(c *gin.Context) {
	ctrl := h.controller(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := components.HomePage(workspace(ctrl)).Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("render page", "error", err)
	}
}

// GetSession returns the session state.
func (h *Handler) GetSession(c *gin.Context) {
	h.respond(c, h.controller(c))
}

// SetText replaces the session text, dropping any generated code.
func (h *Handler) SetText(c *gin.Context) {
	text := c.PostForm("text")
	if len(text) > maxTextLen {
		h.badRequest(c, fmt.Errorf("text is longer than %d bytes", maxTextLen))
		return
	}
	ctrl := h.controller(c)
	if err := ctrl.Dispatch(c.Request.Context(), session.SetText{Text: text}); err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, ctrl)
}

// SetColors updates foreground, background and transparency. Missing
// color fields are left as they are; a missing transparent field means
// unchecked.
func (h *Handler) SetColors(c *gin.Context) {
	var cmds []session.Command
	if v, ok := c.GetPostForm("fg"); ok {
		fg, err := hexcolor.Normalize(v)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		cmds = append(cmds, session.SetForeground{Color: fg})
	}
	if v, ok := c.GetPostForm("bg"); ok {
		bg, err := hexcolor.Normalize(v)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		cmds = append(cmds, session.SetBackground{Color: bg})
	}
	cmds = append(cmds, session.SetTransparent{Transparent: parseBool(c.PostForm("transparent"))})

	ctrl := h.controller(c)
	if err := ctrl.Dispatch(c.Request.Context(), cmds...); err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, ctrl)
}

// Generate encodes the session text.
func (h *Handler) Generate(c *gin.Context) {
	ctrl := h.controller(c)
	if err := ctrl.Dispatch(c.Request.Context(), session.Generate{}); err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, ctrl)
}

// Preview serves the current vector document inline.
func (h *Handler) Preview(c *gin.Context) {
	doc, err := h.controller(c).Document()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no QR code generated"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", doc)
}

// Export downloads the session's code as qrcode.svg or qrcode.png.
func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ctrl := h.controller(c)
	h.export(c, ctrl, format)
}

func (h *Handler) export(c *gin.Context, ctrl *session.Controller, format export.Format) {
	saver := export.ResponseSaver{W: c.Writer, Blobs: h.blobs}
	err := ctrl.Dispatch(c.Request.Context(), session.Export{Format: format, Saver: saver})
	if err == nil {
		return
	}
	if c.Writer.Written() {
		h.logger.Warn("export aborted after response started", "format", format, "error", err)
		return
	}
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("export failed", "format", format, "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// QRCodeHandler generates a QR code in one request without touching any
// session: /api/qr?text=...&format=svg|png&fg=&bg=&transparent=
func (h *Handler) QRCodeHandler(c *gin.Context) {
	text := c.Query("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text parameter is required"})
		return
	}
	if len(text) > maxTextLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text parameter is too long"})
		return
	}

	format, err := export.ParseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmds := []session.Command{session.SetText{Text: text}}
	if v := c.Query("fg"); v != "" {
		fg, err := hexcolor.Normalize(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmds = append(cmds, session.SetForeground{Color: fg})
	}
	if v := c.Query("bg"); v != "" {
		if strings.EqualFold(v, "transparent") {
			cmds = append(cmds, session.SetTransparent{Transparent: true})
		} else {
			bg, err := hexcolor.Normalize(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cmds = append(cmds, session.SetBackground{Color: bg})
		}
	}
	if parseBool(c.Query("transparent")) {
		cmds = append(cmds, session.SetTransparent{Transparent: true})
	}
	cmds = append(cmds, session.Generate{})

	ctrl := h.newController()
	if err := ctrl.Dispatch(c.Request.Context(), cmds...); err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;modules=%d", format, ctrl.Snapshot().SymbolSize))
	h.export(c, ctrl, format)
}
