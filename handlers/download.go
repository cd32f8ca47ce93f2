package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"autotrip/database"
	"autotrip/models"
	"autotrip/services"
	"autotrip/views"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

const (
	mimeCalendar = "text/calendar"
	mimePDF      = "application/pdf"
)

type exportFunc func(ctx context.Context, it *models.Itinerary) ([]byte, error)

func (h *Handler) ExportPDFHandler(c *gin.Context) {
	h.export(c, h.api.ExportItineraryPDF, "pdf", mimePDF, views.PDFExportFailed)
}

func (h *Handler) ExportCalendarHandler(c *gin.Context) {
	h.export(c, h.api.ExportItineraryCalendar, "ics", mimeCalendar, views.CalendarExportFailed)
}

// export sends the whole document or, on failure, the itinerary page with
// a blocking alert and no file.
func (h *Handler) export(c *gin.Context, fn exportFunc, ext, mime, alert string) {
	sess, ok := h.readyItinerary(c)
	if !ok {
		return
	}

	data, err := fn(c.Request.Context(), sess.Itinerary)
	if err != nil {
		log.Error().Str("session", sess.ID).Str("format", ext).Err(err).Msg("❌ Export failed")
		c.Negotiate(http.StatusBadGateway, gin.Negotiate{
			Offered:  offered,
			HTMLName: "itinerary.html",
			HTMLData: h.itineraryPage(sess, alert),
			JSONData: gin.H{"error": alert},
		})
		return
	}

	sendFile(c, views.ExportFilename(sess.Itinerary.Location, ext, h.Now()), mime, data)
}

// BudgetSheetHandler renders the local budget sheet PDF.
func (h *Handler) BudgetSheetHandler(c *gin.Context) {
	sess, ok := h.readyItinerary(c)
	if !ok {
		return
	}

	data, err := services.RenderBudgetSheet(budgetSheet(sess, h.Now()))
	if err != nil {
		log.Error().Str("session", sess.ID).Err(err).Msg("❌ Budget sheet generation failed")
		fail(c, http.StatusInternalServerError, "Failed to generate budget sheet")
		return
	}

	name := "budget" + strings.TrimPrefix(views.ExportFilename(sess.Itinerary.Location, "pdf", h.Now()), "itinerary")
	sendFile(c, name, mimePDF, data)
}

func (h *Handler) readyItinerary(c *gin.Context) (*database.Session, bool) {
	sess, ok := h.loadSession(c)
	if !ok {
		return nil, false
	}
	if sess.Itinerary == nil {
		fail(c, http.StatusConflict, "Itinerary is not ready yet")
		return nil, false
	}
	return sess, true
}

func sendFile(c *gin.Context, name, mime string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mime, data)
}

func budgetSheet(sess *database.Session, now time.Time) services.BudgetSheet {
	view := views.BuildItineraryView(sess.Itinerary)
	req := sess.Request

	sheet := services.BudgetSheet{
		Title:        view.Heading,
		Subtitle:     fmt.Sprintf("%s to %s · %d traveler(s) · budget %s", req.StartDate, req.EndDate, req.Travelers, views.FormatMoney(req.Budget)),
		DisplayTotal: view.DisplayTotal,
		Summary:      sess.Itinerary.Summary,
		DataSources:  sess.Itinerary.DataSources,
		GeneratedAt:  now.UTC(),
	}
	for _, t := range view.Tiles {
		sheet.Lines = append(sheet.Lines, services.BudgetLine{Label: t.Label, Amount: t.Amount})
	}
	for _, d := range view.Days {
		day := services.SheetDay{Heading: fmt.Sprintf("Day %d", d.Day)}
		if d.Date != "" {
			day.Heading += " · " + d.Date
		}
		for _, it := range d.Items {
			day.Rows = append(day.Rows, services.SheetRow{
				Time:     it.Item.Time,
				Title:    it.Item.Title,
				Category: it.Style.Label,
				Cost:     it.Item.CostValue(),
			})
		}
		sheet.Days = append(sheet.Days, day)
	}
	return sheet
}

// ─── Health ───────────────────────────────────────────────────────────────────

func (h *Handler) HealthHandler(c *gin.Context) {
	storeStatus := "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		storeStatus = "error: " + err.Error()
	}
	mapsStatus := "ok"
	if h.maps == nil || !h.maps.Available() {
		mapsStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "AutoTrip",
		"store":    h.store.Kind(),
		"database": storeStatus,
		"maps":     mapsStatus,
	})
}
