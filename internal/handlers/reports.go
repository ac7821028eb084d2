package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"virtual-patient-server/internal/export"
	"virtual-patient-server/internal/simulation"
	"virtual-patient-server/internal/store"
	"virtual-patient-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxReportTextBytes = 1 << 20

// ReportHandler produces and exports end-of-session reports.
type ReportHandler struct {
	Store    store.Gateway
	Reports  *simulation.ReportSynthesizer
	FontPath string
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(gw store.Gateway, reports *simulation.ReportSynthesizer, fontPath string) *ReportHandler {
	return &ReportHandler{Store: gw, Reports: reports, FontPath: fontPath}
}

// GenerateReportRequest names the session to report on.
type GenerateReportRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
}

// GenerateReport asks the model to evaluate a finished session. The session
// duration runs from the conversation's creation until now.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	conv, ok := ownedConversation(c, h.Store, req.ConversationID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	msgs, err := h.Store.ListMessages(ctx, conv.ID)
	if err != nil {
		log.Printf("report: list messages of %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to fetch messages")
		return
	}

	report, err := h.Reports.Synthesize(ctx, store.Transcript(msgs), conv.Profile(), conv.CreatedAt)
	if err != nil {
		log.Printf("report: conversation %s: %v", conv.ID, err)
		var genErr *simulation.GenerationError
		var malformed *simulation.MalformedReportError
		switch {
		case errors.As(err, &genErr):
			utils.BadGateway(c, "Failed to generate report")
		case errors.As(err, &malformed):
			utils.BadGateway(c, "Report generation returned an invalid report")
		default:
			utils.InternalServerError(c, "Failed to generate report")
		}
		return
	}

	utils.Success(c, "Report generated successfully", report)
}

// ExportReport renders a report as plain text or PDF. The body is either a
// JSON report or, with a text/plain content type, a previously exported
// plain-text report.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "text"))
	if format != "text" && format != "pdf" {
		utils.BadRequest(c, "format must be text or pdf")
		return
	}

	report, ok := h.readReport(c)
	if !ok {
		return
	}

	filename := "session-report-" + slug(report.PatientInfo.Name)
	switch format {
	case "text":
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(simulation.RenderReportText(*report)))
	case "pdf":
		pdf, err := export.RenderPDF(*report, h.FontPath)
		if err != nil {
			log.Printf("export pdf: %v", err)
			utils.InternalServerError(c, "Failed to render PDF")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func (h *ReportHandler) readReport(c *gin.Context) (*simulation.SessionReport, bool) {
	if c.ContentType() == "text/plain" {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxReportTextBytes))
		if err != nil {
			utils.BadRequest(c, "Failed to read request body: "+err.Error())
			return nil, false
		}
		report, err := simulation.ParseReportText(string(body))
		if err != nil {
			utils.BadRequest(c, err.Error())
			return nil, false
		}
		return report, true
	}

	var report simulation.SessionReport
	if !utils.BindAndValidate(c, &report) {
		return nil, false
	}
	if err := simulation.ValidateReport(&report); err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false
	}
	return &report, true
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "patient"
	}
	return b.String()
}
