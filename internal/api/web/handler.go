package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"gitee.com/flycash/notifyhub/internal/repository"
	"gitee.com/flycash/notifyhub/internal/service/dispatcher"
	"gitee.com/flycash/notifyhub/internal/service/template"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Handler 通知服务的HTTP入口
type Handler struct {
	dispatchSvc dispatcher.Service
	templateSvc template.Service
	auditRepo   repository.AuditLogRepository
	logger      *elog.Component
}

func NewHandler(
	dispatchSvc dispatcher.Service,
	templateSvc template.Service,
	auditRepo repository.AuditLogRepository,
) *Handler {
	return &Handler{
		dispatchSvc: dispatchSvc,
		templateSvc: templateSvc,
		auditRepo:   auditRepo,
		logger:      elog.DefaultLogger,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	v1.POST("/notifications", h.SendNotification)
	v1.GET("/notifications/:id/log", h.GetLog)
	v1.GET("/logs", h.ListLogs)

	v1.POST("/templates", h.CreateTemplate)
	v1.PUT("/templates/:id", h.UpdateTemplate)
	v1.DELETE("/templates/:id", h.DeactivateTemplate)
	v1.GET("/templates", h.ListTemplates)
}

type sendNotificationReq struct {
	Recipient    string            `json:"recipient"`
	Channel      string            `json:"channel"`
	TemplateCode string            `json:"templateCode"`
	Locale       string            `json:"locale"`
	Payload      map[string]string `json:"payload"`
}

type sendNotificationResp struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	NotificationID string `json:"notificationId,omitempty"`
}

// SendNotification 同步分发一条通知
func (h *Handler) SendNotification(c *gin.Context) {
	var req sendNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sendNotificationResp{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.dispatchSvc.Dispatch(c.Request.Context(), domain.Notification{
		Recipient:    req.Recipient,
		Channel:      domain.Channel(req.Channel),
		TemplateCode: req.TemplateCode,
		Locale:       req.Locale,
		Payload:      req.Payload,
	})

	status := http.StatusOK
	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	c.JSON(status, sendNotificationResp{
		Success:        result.Success,
		Message:        result.Message,
		NotificationID: result.NotificationID,
	})
}

type auditLogResp struct {
	NotificationID string `json:"notificationId"`
	Recipient      string `json:"recipient"`
	Channel        string `json:"channel"`
	TemplateCode   string `json:"templateCode"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	SentAt         int64  `json:"sentAt"`
}

// GetLog 按分发关联ID查询审计日志
func (h *Handler) GetLog(c *gin.Context) {
	entry, err := h.auditRepo.GetByNotificationID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrAuditLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "log not found"})
			return
		}
		h.logger.Error("查询审计日志失败", elog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, h.toLogResp(entry))
}

// ListLogs 审计日志查询，支持按接收者或按状态+时间范围过滤
func (h *Handler) ListLogs(c *gin.Context) {
	offset, limit := h.pagination(c)
	ctx := c.Request.Context()

	var (
		entries []domain.AuditLog
		err     error
	)
	if recipient := c.Query("recipient"); recipient != "" {
		entries, err = h.auditRepo.FindByRecipient(ctx, recipient, offset, limit)
	} else if status := c.Query("status"); status != "" {
		startTime, endTime, perr := h.timeRange(c)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": perr.Error()})
			return
		}
		entries, err = h.auditRepo.FindByStatusBetween(ctx, domain.SendStatus(status), startTime, endTime, offset, limit)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"message": "recipient or status is required"})
		return
	}

	if err != nil {
		h.logger.Error("查询审计日志失败", elog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	resp := make([]auditLogResp, 0, len(entries))
	for i := range entries {
		resp = append(resp, h.toLogResp(entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"logs": resp})
}

type templateReq struct {
	Channel string `json:"channel"`
	Code    string `json:"code"`
	Locale  string `json:"locale"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Active  *bool  `json:"active"`
}

// CreateTemplate 创建模板
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req templateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	created, err := h.templateSvc.Create(c.Request.Context(), domain.ChannelTemplate{
		Channel: domain.Channel(req.Channel),
		Code:    req.Code,
		Locale:  req.Locale,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, errs.ErrTemplateDuplicate):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			h.logger.Error("创建模板失败", elog.Any("err", err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID})
}

// UpdateTemplate 更新模板内容
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid template id"})
		return
	}
	var req templateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	err = h.templateSvc.Update(c.Request.Context(), domain.ChannelTemplate{
		ID:      id,
		Channel: domain.Channel(req.Channel),
		Code:    req.Code,
		Locale:  req.Locale,
		Subject: req.Subject,
		Body:    req.Body,
		Active:  active,
	})
	if err != nil {
		h.templateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeactivateTemplate 停用模板
func (h *Handler) DeactivateTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid template id"})
		return
	}
	err = h.templateSvc.Deactivate(c.Request.Context(), domain.ChannelTemplate{
		ID:      id,
		Channel: domain.Channel(c.Query("channel")),
		Code:    c.Query("code"),
		Locale:  c.Query("locale"),
	})
	if err != nil {
		h.templateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// ListTemplates 获取渠道下启用中的模板
func (h *Handler) ListTemplates(c *gin.Context) {
	channel := c.Query("channel")
	if channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "channel is required"})
		return
	}
	templates, err := h.templateSvc.ListActiveByChannel(c.Request.Context(), domain.Channel(channel))
	if err != nil {
		h.logger.Error("查询模板失败", elog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *Handler) templateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		h.logger.Error("模板操作失败", elog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func (h *Handler) toLogResp(entry domain.AuditLog) auditLogResp {
	return auditLogResp{
		NotificationID: entry.NotificationID,
		Recipient:      entry.Recipient,
		Channel:        string(entry.Channel),
		TemplateCode:   entry.TemplateCode,
		Status:         entry.Status.String(),
		ErrorMessage:   entry.ErrorMessage,
		SentAt:         entry.SentAt.UnixMilli(),
	}
}

func (h *Handler) pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return offset, limit
}

func (h *Handler) timeRange(c *gin.Context) (startTime, endTime time.Time, err error) {
	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start time")
	}
	end, err := strconv.ParseInt(c.DefaultQuery("end", strconv.FormatInt(time.Now().UnixMilli(), 10)), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end time")
	}
	return time.UnixMilli(start), time.UnixMilli(end), nil
}
