package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"autotrip/database"
	"autotrip/views"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var offered = []string{gin.MIMEHTML, gin.MIMEJSON}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"money": views.FormatMoney,
		"join":  strings.Join,
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// render negotiates between the HTML page and its JSON view model.
func render(c *gin.Context, code int, name string, data any) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  offered,
		HTMLName: name,
		Data:     data,
	})
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(offered...) == gin.MIMEJSON
}

type errorPage struct {
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Message string `json:"error"`
}

func fail(c *gin.Context, code int, message string) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  offered,
		HTMLName: "error.html",
		HTMLData: errorPage{Status: code, Title: http.StatusText(code), Message: message},
		JSONData: gin.H{"error": message},
	})
}

// redirectOr sends browsers to location and JSON clients the data.
func redirectOr(c *gin.Context, code int, location string, data any) {
	if wantsJSON(c) {
		c.JSON(code, data)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// loadSession resolves :id and writes the error response itself when the
// session cannot be loaded.
func (h *Handler) loadSession(c *gin.Context) (*database.Session, bool) {
	id := c.Param("id")
	sess, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrSessionNotFound) {
		fail(c, http.StatusNotFound, "Planning session not found")
		return nil, false
	}
	if err != nil {
		log.Error().Str("session", id).Err(err).Msg("❌ Failed to load session")
		fail(c, http.StatusInternalServerError, "Failed to load planning session")
		return nil, false
	}
	return sess, true
}

// updateSession reloads the session under its lock, applies fn and saves
// the result. Slow work belongs before the call, not inside fn.
func (h *Handler) updateSession(c *gin.Context, fn func(*database.Session)) (*database.Session, bool) {
	unlock := h.locks.lock(c.Param("id"))
	defer unlock()

	sess, ok := h.loadSession(c)
	if !ok {
		return nil, false
	}
	fn(sess)
	if !h.saveSession(c, sess) {
		return nil, false
	}
	return sess, true
}

func (h *Handler) saveSession(c *gin.Context, sess *database.Session) bool {
	if err := h.store.Update(c.Request.Context(), sess); err != nil {
		log.Error().Str("session", sess.ID).Err(err).Msg("❌ Failed to save session")
		fail(c, http.StatusInternalServerError, "Failed to save planning session")
		return false
	}
	return true
}
