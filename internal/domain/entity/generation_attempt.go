// Package entity 定义领域实体
package entity

import (
	"time"
)

// GenerationAttempt 一次 AI 生成调用的记录，仅追加，不更新不删除
type GenerationAttempt struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	Prompt          string    `json:"prompt"`
	GeneratedOutput *string   `json:"generated_output,omitempty"`
	GenerationTime  float64   `json:"generation_time"`
	Success         bool      `json:"success"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewSuccessAttempt 创建成功的生成记录
func NewSuccessAttempt(projectID int64, prompt, output string, elapsed time.Duration) *GenerationAttempt {
	return &GenerationAttempt{
		ProjectID:       projectID,
		Prompt:          prompt,
		GeneratedOutput: &output,
		GenerationTime:  elapsed.Seconds(),
		Success:         true,
		CreatedAt:       time.Now(),
	}
}

// NewFailedAttempt 创建失败的生成记录
func NewFailedAttempt(projectID int64, prompt, errMsg string, elapsed time.Duration) *GenerationAttempt {
	return &GenerationAttempt{
		ProjectID:      projectID,
		Prompt:         prompt,
		GenerationTime: elapsed.Seconds(),
		Success:        false,
		ErrorMessage:   &errMsg,
		CreatedAt:      time.Now(),
	}
}
