// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/internal/interfaces/http/dto"
	"sitecraft-api/internal/interfaces/http/middleware"
	"sitecraft-api/pkg/errors"
	"sitecraft-api/pkg/logger"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projectRepo repository.ProjectRepository
	txManager   repository.Transactor
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projectRepo repository.ProjectRepository, txManager repository.Transactor) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		txManager:   txManager,
	}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Description 获取当前用户的项目列表，按更新时间倒序
// @Tags Projects
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(10)
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	pageReq := dto.BindPage(c)

	result, err := h.projectRepo.ListByOwner(ctx, ownerID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.InternalError(c, "failed to list projects")
		return
	}

	resp := dto.ToProjectListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// CreateProject 创建项目
// @Summary 创建项目
// @Description 创建新的网站项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project := req.ToProjectEntity(ownerID)

	if err := h.projectRepo.Create(ctx, project); err != nil {
		logger.Error(ctx, "failed to create project", err)
		dto.InternalError(c, "failed to create project")
		return
	}

	dto.Created(c, dto.ToProjectResponse(project))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Description 获取当前用户指定项目的详细信息
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path int true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	projectID, err := dto.BindProjectID(c)
	if err != nil {
		dto.BadRequest(c, "invalid project id")
		return
	}

	project, err := h.projectRepo.GetByID(ctx, projectID, ownerID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to get project")
		return
	}

	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// UpdateProject 更新项目
// @Summary 更新项目
// @Description 更新项目信息，仅更新请求中给出的字段
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path int true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	projectID, err := dto.BindProjectID(c)
	if err != nil {
		dto.BadRequest(c, "invalid project id")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 读改写在同一事务中执行
	var project *entity.Project
	err = h.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		p, err := h.projectRepo.GetByID(txCtx, projectID, ownerID)
		if err != nil {
			return err
		}
		if p == nil {
			return errors.ErrProjectNotFound
		}
		req.ApplyToProject(p)
		if err := h.projectRepo.Update(txCtx, p); err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		if errors.IsCode(err, errors.CodeProjectNotFound) {
			dto.NotFound(c, "project not found")
			return
		}
		logger.Error(ctx, "failed to update project", err)
		dto.InternalError(c, "failed to update project")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Description 删除当前用户的指定项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path int true "项目 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.GetUserIDFromGin(c)

	projectID, err := dto.BindProjectID(c)
	if err != nil {
		dto.BadRequest(c, "invalid project id")
		return
	}

	deleted, err := h.projectRepo.Delete(ctx, projectID, ownerID)
	if err != nil {
		logger.Error(ctx, "failed to delete project", err)
		dto.InternalError(c, "failed to delete project")
		return
	}

	if !deleted {
		dto.NotFound(c, "project not found")
		return
	}

	dto.NoContent(c)
}
