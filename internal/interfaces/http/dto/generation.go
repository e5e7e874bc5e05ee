// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"sitecraft-api/internal/domain/entity"
)

// GenerateWebsiteRequest 首次生成请求
type GenerateWebsiteRequest struct {
	ProjectID int64  `json:"project_id" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
}

// RegenerateWebsiteRequest 重新生成请求
type RegenerateWebsiteRequest struct {
	ProjectID     int64  `json:"project_id" binding:"required"`
	Modifications string `json:"modifications" binding:"required"`
}

// GenerationResultResponse 生成结果响应
type GenerationResultResponse struct {
	Project        *ProjectResponse `json:"project"`
	GenerationTime float64          `json:"generation_time"`
}

// HistoryEntryResponse 生成历史条目，不包含生成产物正文
type HistoryEntryResponse struct {
	ID             int64     `json:"id"`
	ProjectID      int64     `json:"project_id"`
	Prompt         string    `json:"prompt"`
	GenerationTime float64   `json:"generation_time"`
	Success        bool      `json:"success"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryListResponse 生成历史列表响应
type HistoryListResponse struct {
	History []*HistoryEntryResponse `json:"history"`
}

// ToHistoryEntryResponse 将生成记录转换为响应 DTO
func ToHistoryEntryResponse(a *entity.GenerationAttempt) *HistoryEntryResponse {
	if a == nil {
		return nil
	}
	return &HistoryEntryResponse{
		ID:             a.ID,
		ProjectID:      a.ProjectID,
		Prompt:         a.Prompt,
		GenerationTime: a.GenerationTime,
		Success:        a.Success,
		ErrorMessage:   a.ErrorMessage,
		CreatedAt:      a.CreatedAt,
	}
}

// ToHistoryListResponse 将生成记录列表转换为响应 DTO
func ToHistoryListResponse(attempts []*entity.GenerationAttempt) *HistoryListResponse {
	resp := &HistoryListResponse{
		History: make([]*HistoryEntryResponse, 0, len(attempts)),
	}
	for _, a := range attempts {
		resp.History = append(resp.History, ToHistoryEntryResponse(a))
	}
	return resp
}
