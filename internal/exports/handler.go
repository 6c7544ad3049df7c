package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	defaultTimezone = "UTC"
	dateLayout      = "2006-01-02"
	defaultDays     = 90
	defaultLimit    = 5000
	maxLimit        = 50000
)

// utf8BOM makes spreadsheet tools read accented names correctly.
const utf8BOM = "\ufeff"

type leadRowReader interface {
	ListLeadRows(ctx context.Context, f ExportFilter) ([]LeadRow, error)
}

// ExportQuery holds the query parameters of the lead export.
type ExportQuery struct {
	FromDate string `form:"fromDate" json:"fromDate" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"toDate" json:"toDate" validate:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=new contacted qualified converted"`
	Limit    int    `form:"limit" json:"limit" validate:"omitempty,min=1"`
	Timezone string `form:"timezone" json:"timezone"`
}

// Handler streams lead exports.
type Handler struct {
	repo leadRowReader
	val  *validator.Validator
	log  *logger.Logger
	now  func() time.Time
}

func NewHandler(repo leadRowReader, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, val: val, log: log, now: time.Now}
}

// ExportLeadsCSV writes the filtered leads as a CSV attachment.
func (h *Handler) ExportLeadsCSV(c *gin.Context) {
	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", validator.FieldErrors(err))
		return
	}

	location, tzName, ok := parseTimezone(c, q.Timezone)
	if !ok {
		return
	}
	from, to, err := parseDateRange(q.FromDate, q.ToDate, h.now().In(location), location)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	filter := ExportFilter{From: from, To: to, Limit: clampLimit(q.Limit)}
	if q.Status != "" {
		status := q.Status
		filter.Status = &status
	}

	rows, err := h.repo.ListLeadRows(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	httpkit.SetAttachment(c, exportFileName(from, to))
	c.Status(http.StatusOK)

	if _, err := c.Writer.WriteString(utf8BOM); err != nil {
		return
	}
	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeaders()); err != nil {
		return
	}
	for _, row := range rows {
		if err := writer.Write(leadRecord(row, location)); err != nil {
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.log.Error("lead export interrupted", "error", err)
		return
	}

	h.log.Info("leads exported", "count", len(rows), "timezone", tzName, "status", q.Status)
}

func csvHeaders() []string {
	return []string{
		"ID",
		"Date de création",
		"Entreprise",
		"Contact",
		"Email",
		"Téléphone",
		"Type de site",
		"Facture mensuelle (FCFA)",
		"Budget (FCFA)",
		"Statut",
		"Scénarios recommandés",
		"Interactions",
		"Dernière interaction",
	}
}

func leadRecord(row LeadRow, location *time.Location) []string {
	budget := ""
	if row.Budget != nil {
		budget = formatAmount(*row.Budget)
	}
	last := ""
	if row.LastInteraction != nil {
		last = formatTime(*row.LastInteraction, location)
	}
	return []string{
		row.ID.String(),
		formatTime(row.CreatedAt, location),
		row.CompanyName,
		row.ContactName,
		row.Email,
		row.Phone,
		row.SiteType,
		formatAmount(row.ElectricityBill),
		budget,
		row.Status,
		row.Scenarios,
		strconv.Itoa(row.InteractionCount),
		last,
	}
}

func formatTime(value time.Time, location *time.Location) string {
	return value.In(location).Format("2006-01-02 15:04:05")
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 0, 64)
}

func exportFileName(from, to time.Time) string {
	return fmt.Sprintf("leads-%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
}

func parseTimezone(c *gin.Context, raw string) (*time.Location, string, bool) {
	tzName := strings.TrimSpace(raw)
	if tzName == "" {
		tzName = defaultTimezone
	}
	location, err := time.LoadLocation(tzName)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid timezone", nil)
		return nil, "", false
	}
	return location, tzName, true
}

// parseDateRange resolves calendar dates in location. toDate is inclusive.
func parseDateRange(fromStr, toStr string, now time.Time, location *time.Location) (time.Time, time.Time, error) {
	from := now.AddDate(0, 0, -defaultDays)
	to := now

	if fromStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, fromStr, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, toStr, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("toDate before fromDate")
	}
	return from, to, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
