package handlers

import (
    "encoding/xml"
    "log/slog"
    "net/http"

    "github.com/cristianadrielbraun/qrforge/internal/export"
    "github.com/cristianadrielbraun/qrforge/internal/session"
    "github.com/gin-gonic/gin"
)

// Handler holds the dependencies shared by the HTTP handlers.
type Handler struct {
    sessions      *session.Manager
    newController func() *session.Controller
    blobs         export.BlobStore
    logger        *slog.Logger
}

// New returns a Handler. newController builds the throwaway controllers
// used by the stateless QR endpoint; blobs must be the store the
// controllers' exporter writes to.
func New(sessions *session.Manager, newController func() *session.Controller, blobs export.BlobStore, logger *slog.Logger) *Handler {
    return &Handler{
        sessions:      sessions,
        newController: newController,
        blobs:         blobs,
        logger:        logger,
    }
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sitemapPage is one HTML page listed in sitemap.xml.
type sitemapPage struct {
    Path       string
    ChangeFreq string
    Priority   string
}

// sitemapPages lists the crawlable HTML pages. API routes stay out.
var sitemapPages = []sitemapPage{
    {Path: "/", ChangeFreq: "weekly", Priority: "1.0"},
}

type sitemapURL struct {
    Loc        string `xml:"loc"`
    ChangeFreq string `xml:"changefreq"`
    Priority   string `xml:"priority"`
}

type sitemapURLSet struct {
    XMLName xml.Name     `xml:"urlset"`
    Xmlns   string       `xml:"xmlns,attr"`
    URLs    []sitemapURL `xml:"url"`
}

// baseURL is the scheme and host the client used, honoring a proxy's
// X-Forwarded-Proto.
func baseURL(c *gin.Context) string {
    scheme := "http"
    if c.Request.TLS != nil {
        scheme = "https"
    }
    if xf := c.GetHeader("X-Forwarded-Proto"); xf != "" {
        scheme = xf
    }
    return scheme + "://" + c.Request.Host
}

// SitemapXML serves sitemap.xml for sitemapPages.
func (h *Handler) SitemapXML(c *gin.Context) {
    base := baseURL(c)
    set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
    for _, p := range sitemapPages {
        set.URLs = append(set.URLs, sitemapURL{Loc: base + p.Path, ChangeFreq: p.ChangeFreq, Priority: p.Priority})
    }
    out, err := xml.MarshalIndent(set, "", "  ")
    if err != nil {
        h.logger.Error("encode sitemap", "error", err)
        c.Status(http.StatusInternalServerError)
        return
    }
    c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// Routes registers every handler on r.
func (h *Handler) Routes(r gin.IRouter) {
    r.GET("/", h.HomePage)
    r.GET("/sitemap.xml", h.SitemapXML)
    r.GET("/healthz", h.Healthz)

    api := r.Group("/api")
    {
        api.GET("/qr", h.QRCodeHandler)
        api.POST("/htmx/toast", h.GenericToast)

        s := api.Group("/session")
        s.GET("", h.GetSession)
        s.POST("/text", h.SetText)
        s.POST("/colors", h.SetColors)
        s.POST("/generate", h.Generate)
        s.GET("/preview.svg", h.Preview)
        s.GET("/export/:format", h.Export)
    }
}
