package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/auth"
	"github.com/aebalz/wellmind-tracker/internal/middleware"
	"github.com/aebalz/wellmind-tracker/internal/model"
	"github.com/aebalz/wellmind-tracker/internal/service"
)

// WellnessHandler exposes the wellness engine over HTTP.
type WellnessHandler struct {
	Service           service.WellnessServiceInterface
	Logger            zerolog.Logger
	AlertWindowDays   int
	AverageWindowDays int
	Now               func() time.Time
}

func NewWellnessHandler(svc service.WellnessServiceInterface, logger zerolog.Logger, alertWindowDays, averageWindowDays int) *WellnessHandler {
	return &WellnessHandler{
		Service:           svc,
		Logger:            logger,
		AlertWindowDays:   alertWindowDays,
		AverageWindowDays: averageWindowDays,
		Now:               time.Now,
	}
}

// SubmitRequest is the body of POST /wellness. UserID defaults to the caller.
type SubmitRequest struct {
	UserID *uint `json:"user_id,omitempty"`
	model.WellnessInput
}

// AverageSummary is the body of the average endpoint. AverageWellness and
// Classification are null when the window holds no records.
type AverageSummary struct {
	UserID          uint                  `json:"user_id"`
	AverageWellness *float64              `json:"average_wellness"`
	Classification  *model.Classification `json:"classification"`
	WindowDays      int                   `json:"window_days"`
}

// authorizeUser lets admins act on anyone and users only on themselves.
func authorizeUser(claims *auth.Claims, userID uint) error {
	if claims == nil {
		return service.ErrUnauthorized
	}
	if claims.IsAdmin() || claims.UserID == userID {
		return nil
	}
	return fmt.Errorf("%w: records of user %d", service.ErrForbidden, userID)
}

func (h *WellnessHandler) submit(ctx context.Context, claims *auth.Claims, req SubmitRequest) (*model.EvaluatedRecord, error) {
	if claims == nil {
		return nil, service.ErrUnauthorized
	}
	userID := claims.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if err := authorizeUser(claims, userID); err != nil {
		return nil, err
	}
	return h.Service.SubmitRecord(ctx, userID, req.WellnessInput)
}

func (h *WellnessHandler) ownedUser(claims *auth.Claims, raw string) (uint, error) {
	userID, err := parseUserID(raw)
	if err != nil {
		return 0, err
	}
	return userID, authorizeUser(claims, userID)
}

func (h *WellnessHandler) list(ctx context.Context, claims *auth.Claims, rawID, rawPage, rawSize string) (*service.RecordPage, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, err
	}
	page, err := parseIntQuery(rawPage, "page", 0)
	if err != nil {
		return nil, err
	}
	size, err := parseIntQuery(rawSize, "size", service.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return h.Service.ListUserRecords(ctx, userID, page, size)
}

func (h *WellnessHandler) latest(ctx context.Context, claims *auth.Claims, rawID string) (*model.EvaluatedRecord, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, err
	}
	return h.Service.LatestRecord(ctx, userID)
}

func (h *WellnessHandler) period(ctx context.Context, claims *auth.Claims, rawID, rawStart, rawEnd string) ([]model.EvaluatedRecord, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, err
	}
	start, err := parseTimeQuery(rawStart, "start", false)
	if err != nil {
		return nil, err
	}
	end, err := parseTimeQuery(rawEnd, "end", true)
	if err != nil {
		return nil, err
	}
	return h.Service.RecordsForPeriod(ctx, userID, start, end)
}

func (h *WellnessHandler) windowDays(raw string, fallback int) (int, error) {
	days, err := parseIntQuery(raw, "days", fallback)
	if err != nil {
		return 0, err
	}
	if days < 1 {
		return 0, service.NewValidationError("days", "min=1", "must be at least 1")
	}
	return days, nil
}

func (h *WellnessHandler) average(ctx context.Context, claims *auth.Claims, rawID, rawDays string) (*AverageSummary, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, err
	}
	days, err := h.windowDays(rawDays, h.AverageWindowDays)
	if err != nil {
		return nil, err
	}
	avg, err := h.Service.AverageWellness(ctx, userID, h.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	summary := &AverageSummary{UserID: userID, AverageWellness: avg, WindowDays: days}
	if avg != nil {
		class := model.Classify(*avg)
		summary.Classification = &class
	}
	return summary, nil
}

func (h *WellnessHandler) statistics(ctx context.Context, claims *auth.Claims, rawID, rawDays string) (*service.Statistics, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, err
	}
	days, err := h.windowDays(rawDays, h.AverageWindowDays)
	if err != nil {
		return nil, err
	}
	return h.Service.UserStatistics(ctx, userID, h.Now().AddDate(0, 0, -days))
}

func (h *WellnessHandler) export(ctx context.Context, claims *auth.Claims, rawID, format string) ([]byte, string, string, error) {
	userID, err := h.ownedUser(claims, rawID)
	if err != nil {
		return nil, "", "", err
	}
	if format == "" {
		format = "csv"
	}
	data, contentType, err := h.Service.ExportUserRecords(ctx, userID, format)
	if err != nil {
		return nil, "", "", err
	}
	ext := "csv"
	if contentType == "application/json" {
		ext = "json"
	}
	disposition := fmt.Sprintf("attachment; filename=wellness_user_%d_%s.%s", userID, h.Now().UTC().Format("20060102"), ext)
	return data, contentType, disposition, nil
}

func (h *WellnessHandler) alerts(ctx context.Context, rawDays string) ([]model.EvaluatedRecord, error) {
	days, err := parseIntQuery(rawDays, "days", h.AlertWindowDays)
	if err != nil {
		return nil, err
	}
	return h.Service.FindRecordsRequiringAlert(ctx, days)
}

func (h *WellnessHandler) highStress(ctx context.Context, rawPage, rawSize string) (*service.RecordPage, error) {
	page, err := parseIntQuery(rawPage, "page", 0)
	if err != nil {
		return nil, err
	}
	size, err := parseIntQuery(rawSize, "size", service.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return h.Service.HighStressRecords(ctx, page, size)
}

// --- Fiber ---

// SubmitRecordFiber stores a check-in and returns it with its derived score.
// @Summary Submit a wellness check-in
// @Tags Wellness
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "Check-in"
// @Success 201 {object} model.EvaluatedRecord
// @Failure 400 {object} apierror.Response
// @Failure 403 {object} apierror.Response
// @Failure 404 {object} apierror.Response
// @Router /wellness [post]
func (h *WellnessHandler) SubmitRecordFiber(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return writeFiberError(c, h.Logger, errMalformedBody)
	}
	rec, err := h.submit(c.UserContext(), middleware.ClaimsFromFiber(c), req)
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// ListUserRecordsFiber pages through a user's records, newest first.
// @Summary List a user's records
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Param page query int false "Page, from 0"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} service.RecordPage
// @Failure 404 {object} apierror.Response
// @Router /wellness/users/{userId} [get]
func (h *WellnessHandler) ListUserRecordsFiber(c *fiber.Ctx) error {
	page, err := h.list(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"), c.Query("page"), c.Query("size"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(page)
}

// LatestRecordFiber returns a user's newest record.
// @Summary Latest record of a user
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} model.EvaluatedRecord
// @Failure 404 {object} apierror.Response
// @Router /wellness/users/{userId}/latest [get]
func (h *WellnessHandler) LatestRecordFiber(c *fiber.Ctx) error {
	rec, err := h.latest(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(rec)
}

// RecordsForPeriodFiber returns a user's records between start and end.
// @Summary Records of a user in a period
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Param start query string true "RFC 3339 timestamp or YYYY-MM-DD"
// @Param end query string true "RFC 3339 timestamp or YYYY-MM-DD"
// @Success 200 {array} model.EvaluatedRecord
// @Failure 400 {object} apierror.Response
// @Router /wellness/users/{userId}/period [get]
func (h *WellnessHandler) RecordsForPeriodFiber(c *fiber.Ctx) error {
	records, err := h.period(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"), c.Query("start"), c.Query("end"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(records)
}

// AverageWellnessFiber returns a user's mean wellness score over a trailing window.
// @Summary Average wellness of a user
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} AverageSummary
// @Router /wellness/users/{userId}/average [get]
func (h *WellnessHandler) AverageWellnessFiber(c *fiber.Ctx) error {
	summary, err := h.average(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"), c.Query("days"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(summary)
}

// UserStatisticsFiber aggregates a user's records over a trailing window.
// @Summary Wellness statistics of a user
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} service.Statistics
// @Router /wellness/users/{userId}/statistics [get]
func (h *WellnessHandler) UserStatisticsFiber(c *fiber.Ctx) error {
	stats, err := h.statistics(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"), c.Query("days"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(stats)
}

// ExportUserRecordsFiber downloads a user's full history.
// @Summary Export a user's records
// @Tags Wellness
// @Security BearerAuth
// @Produce text/csv
// @Produce json
// @Param userId path int true "User ID"
// @Param format query string false "csv or json" default(csv)
// @Success 200 {file} file
// @Router /wellness/users/{userId}/export [get]
func (h *WellnessHandler) ExportUserRecordsFiber(c *fiber.Ctx) error {
	data, contentType, disposition, err := h.export(c.UserContext(), middleware.ClaimsFromFiber(c), c.Params("userId"), c.Query("format"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, disposition)
	return c.Send(data)
}

// RecordsRequiringAlertFiber lists every user's alerting records in the trailing window.
// @Summary Records requiring an alert
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param days query int false "Window in days" default(1)
// @Success 200 {array} model.EvaluatedRecord
// @Failure 403 {object} apierror.Response
// @Router /wellness/alerts [get]
func (h *WellnessHandler) RecordsRequiringAlertFiber(c *fiber.Ctx) error {
	records, err := h.alerts(c.UserContext(), c.Query("days"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(records)
}

// HighStressRecordsFiber pages through records at or above the stress threshold.
// @Summary High stress records
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page, from 0"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} service.RecordPage
// @Failure 403 {object} apierror.Response
// @Router /wellness/high-stress [get]
func (h *WellnessHandler) HighStressRecordsFiber(c *fiber.Ctx) error {
	page, err := h.highStress(c.UserContext(), c.Query("page"), c.Query("size"))
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(page)
}

// --- Gin ---

func (h *WellnessHandler) SubmitRecordGin(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeGinError(c, h.Logger, errMalformedBody)
		return
	}
	rec, err := h.submit(c.Request.Context(), middleware.ClaimsFromGin(c), req)
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *WellnessHandler) ListUserRecordsGin(c *gin.Context) {
	page, err := h.list(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"), c.Query("page"), c.Query("size"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *WellnessHandler) LatestRecordGin(c *gin.Context) {
	rec, err := h.latest(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *WellnessHandler) RecordsForPeriodGin(c *gin.Context) {
	records, err := h.period(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"), c.Query("start"), c.Query("end"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *WellnessHandler) AverageWellnessGin(c *gin.Context) {
	summary, err := h.average(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"), c.Query("days"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *WellnessHandler) UserStatisticsGin(c *gin.Context) {
	stats, err := h.statistics(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"), c.Query("days"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WellnessHandler) ExportUserRecordsGin(c *gin.Context) {
	data, contentType, disposition, err := h.export(c.Request.Context(), middleware.ClaimsFromGin(c), c.Param("userId"), c.Query("format"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, data)
}

func (h *WellnessHandler) RecordsRequiringAlertGin(c *gin.Context) {
	records, err := h.alerts(c.Request.Context(), c.Query("days"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *WellnessHandler) HighStressRecordsGin(c *gin.Context) {
	page, err := h.highStress(c.Request.Context(), c.Query("page"), c.Query("size"))
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
