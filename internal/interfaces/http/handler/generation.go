// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"sitecraft-api/internal/application/generation"
	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/internal/interfaces/http/dto"
	"sitecraft-api/internal/interfaces/http/middleware"
	"sitecraft-api/pkg/errors"
	"sitecraft-api/pkg/logger"
)

// HistoryLister 生成历史读取接口，由 redis.HistoryCache 实现
type HistoryLister interface {
	ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error)
}

// GenerationHandler 网站生成处理器
type GenerationHandler struct {
	service     *generation.Service
	projectRepo repository.ProjectRepository
	history     HistoryLister
}

// NewGenerationHandler 创建网站生成处理器
func NewGenerationHandler(
	service *generation.Service,
	projectRepo repository.ProjectRepository,
	history HistoryLister,
) *GenerationHandler {
	return &GenerationHandler{
		service:     service,
		projectRepo: projectRepo,
		history:     history,
	}
}

// GenerateWebsite 生成网站
// @Summary 生成网站
// @Description 根据描述为项目生成完整网站
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateWebsiteRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/generate-website [post]
func (h *GenerationHandler) GenerateWebsite(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	var req dto.GenerateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Generate(ctx, ownerID, req.ProjectID, req.Prompt)
	if err != nil {
		if !errors.IsAppError(err) {
			logger.Error(ctx, "website generation failed", err, "project_id", req.ProjectID)
		}
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, &dto.GenerationResultResponse{
		Project:        dto.ToProjectResponse(result.Project),
		GenerationTime: result.GenerationTime,
	})
}

// RegenerateWebsite 重新生成网站
// @Summary 重新生成网站
// @Description 按修改指令在已有代码基础上重新生成
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.RegenerateWebsiteRequest true "重新生成请求"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/regenerate-website [post]
func (h *GenerationHandler) RegenerateWebsite(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	var req dto.RegenerateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Regenerate(ctx, ownerID, req.ProjectID, req.Modifications)
	if err != nil {
		if !errors.IsAppError(err) {
			logger.Error(ctx, "website regeneration failed", err, "project_id", req.ProjectID)
		}
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, &dto.GenerationResultResponse{
		Project:        dto.ToProjectResponse(result.Project),
		GenerationTime: result.GenerationTime,
	})
}

// GetGenerationHistory 获取生成历史
// @Summary 获取生成历史
// @Description 获取项目的生成历史，按时间倒序，不含生成产物正文
// @Tags Generation
// @Accept json
// @Produce json
// @Param pid path int true "项目 ID"
// @Param limit query int false "返回条数" default(20)
// @Success 200 {object} dto.Response[dto.HistoryListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/generation-history/{pid} [get]
func (h *GenerationHandler) GetGenerationHistory(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	projectID, err := dto.BindProjectID(c)
	if err != nil {
		dto.BadRequest(c, "invalid project id")
		return
	}

	// 历史记录的归属通过父项目校验
	project, err := h.projectRepo.GetByID(ctx, projectID, ownerID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to get generation history")
		return
	}
	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}

	limit := c.DefaultQuery("limit", "")
	attempts, err := h.history.ListByProject(ctx, projectID, parseIntWithDefault(limit, repository.DefaultHistoryLimit))
	if err != nil {
		logger.Error(ctx, "failed to list generation history", err)
		dto.InternalError(c, "failed to get generation history")
		return
	}

	dto.Success(c, dto.ToHistoryListResponse(attempts))
}
