// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"sitecraft-api/internal/domain/entity"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description" binding:"max=5000"`
	WebsiteType  string `json:"website_type" binding:"max=50"`
	Requirements string `json:"requirements" binding:"max=10000"`
}

// UpdateProjectRequest 更新项目请求，仅更新给定字段
type UpdateProjectRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Description  *string `json:"description,omitempty" binding:"omitempty,max=5000"`
	WebsiteType  *string `json:"website_type,omitempty" binding:"omitempty,max=50"`
	Requirements *string `json:"requirements,omitempty" binding:"omitempty,max=10000"`
	Status       *string `json:"status,omitempty"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	WebsiteType   string    `json:"website_type"`
	Requirements  string    `json:"requirements,omitempty"`
	GeneratedCode *string   `json:"generated_code,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []*ProjectResponse `json:"projects"`
}

// ToProjectResponse 将领域实体转换为响应 DTO
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Description:   p.Description,
		WebsiteType:   p.WebsiteType,
		Requirements:  p.Requirements,
		GeneratedCode: p.GeneratedCode,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProjectListResponse 将领域实体列表转换为响应 DTO
// 列表视图不携带生成代码正文
func ToProjectListResponse(projects []*entity.Project) *ProjectListResponse {
	resp := &ProjectListResponse{
		Projects: make([]*ProjectResponse, 0, len(projects)),
	}
	for _, p := range projects {
		item := ToProjectResponse(p)
		item.GeneratedCode = nil
		resp.Projects = append(resp.Projects, item)
	}
	return resp
}

// ToProjectEntity 将请求 DTO 转换为领域实体
func (r *CreateProjectRequest) ToProjectEntity(ownerID int64) *entity.Project {
	project := entity.NewProject(ownerID, r.Name)
	project.Description = r.Description
	project.Requirements = r.Requirements
	if r.WebsiteType != "" {
		project.WebsiteType = r.WebsiteType
	}
	return project
}

// ApplyToProject 将更新请求应用到项目实体
func (r *UpdateProjectRequest) ApplyToProject(p *entity.Project) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.WebsiteType != nil {
		p.WebsiteType = *r.WebsiteType
	}
	if r.Requirements != nil {
		p.Requirements = *r.Requirements
	}
	if r.Status != nil {
		p.Status = entity.ProjectStatus(*r.Status)
	}
	p.UpdatedAt = time.Now()
}
