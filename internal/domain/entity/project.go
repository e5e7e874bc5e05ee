// Package entity 定义领域实体
package entity

import (
	"time"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusDraft       ProjectStatus = "draft"
	ProjectStatusGenerated   ProjectStatus = "generated"
	ProjectStatusRegenerated ProjectStatus = "regenerated"
)

// DefaultWebsiteType 未指定时的网站类型
const DefaultWebsiteType = "general"

// Project 网站项目实体
type Project struct {
	ID            int64         `json:"id"`
	OwnerID       int64         `json:"owner_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	WebsiteType   string        `json:"website_type"`
	Requirements  string        `json:"requirements,omitempty"`
	GeneratedCode *string       `json:"generated_code,omitempty"`
	Status        ProjectStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewProject 创建新项目
func NewProject(ownerID int64, name string) *Project {
	now := time.Now()
	return &Project{
		OwnerID:     ownerID,
		Name:        name,
		WebsiteType: DefaultWebsiteType,
		Status:      ProjectStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasGeneratedCode 检查项目是否已有生成代码
func (p *Project) HasGeneratedCode() bool {
	return p.GeneratedCode != nil && *p.GeneratedCode != ""
}

// ApplyGeneration 记录一次成功的首次生成结果
func (p *Project) ApplyGeneration(code string) {
	p.GeneratedCode = &code
	p.Status = ProjectStatusGenerated
	p.UpdatedAt = time.Now()
}

// ApplyRegeneration 记录一次成功的修改生成结果
func (p *Project) ApplyRegeneration(code string) {
	p.GeneratedCode = &code
	p.Status = ProjectStatusRegenerated
	p.UpdatedAt = time.Now()
}
