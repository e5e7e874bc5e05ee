// Package generation 提供网站生成工作流编排
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/pkg/errors"
	"sitecraft-api/pkg/logger"
	"sitecraft-api/pkg/metrics"
)

var tracer = otel.Tracer("generation")

// GenerationClient 文本生成客户端接口，由 infrastructure/llm 实现
type GenerationClient interface {
	GenerateWebsite(ctx context.Context, prompt, websiteType string) (string, error)
	ModifyWebsite(ctx context.Context, existingCode, modifications, websiteType string) (string, error)
}

// HistoryInvalidator 生成历史缓存失效接口，由 interfaces 层的缓存实现注入
// 为 nil 时不做任何失效动作
type HistoryInvalidator interface {
	InvalidateHistory(ctx context.Context, projectID int64)
}

// Result 一次生成的结果，包含更新后的项目与耗时（秒）
type Result struct {
	Project        *entity.Project
	GenerationTime float64
}

// Service 网站生成工作流：校验、加载项目、调用生成客户端、落库并记录历史
type Service struct {
	projectRepo repository.ProjectRepository
	historyRepo repository.GenerationAttemptRepository
	client      GenerationClient
	invalidator HistoryInvalidator
}

// NewService 创建生成工作流服务
func NewService(
	projectRepo repository.ProjectRepository,
	historyRepo repository.GenerationAttemptRepository,
	client GenerationClient,
	invalidator HistoryInvalidator,
) *Service {
	return &Service{
		projectRepo: projectRepo,
		historyRepo: historyRepo,
		client:      client,
		invalidator: invalidator,
	}
}

// Generate 为项目首次生成网站
// 成功时项目进入 generated 状态并写入成功历史；失败时项目不变，只写失败历史
func (s *Service) Generate(ctx context.Context, ownerID, projectID int64, prompt string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	span.SetAttributes(
		attribute.Int64("project.id", projectID),
		attribute.Int64("owner.id", ownerID),
	)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.ErrValidationFailed.WithDetail("prompt is required")
	}

	project, err := s.loadProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	code, genErr := s.client.GenerateWebsite(ctx, prompt, project.WebsiteType)
	elapsed := time.Since(start)

	if genErr != nil {
		s.recordFailure(ctx, projectID, prompt, genErr, elapsed, "generate")
		return nil, errors.Wrap(genErr, errors.CodeGenerationFailed, "website generation failed")
	}

	project.ApplyGeneration(code)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.recordSuccess(ctx, projectID, prompt, code, elapsed, "generate")

	metrics.WebsiteGenerationTotal.WithLabelValues("generate", "success").Inc()
	metrics.WebsiteGenerationDuration.WithLabelValues("generate").Observe(elapsed.Seconds())
	metrics.WebsiteGeneratedBytes.WithLabelValues("generate").Observe(float64(len(code)))

	return &Result{Project: project, GenerationTime: elapsed.Seconds()}, nil
}

// Regenerate 按修改指令在已有代码基础上重新生成
// 项目必须已有生成代码，否则返回业务错误
func (s *Service) Regenerate(ctx context.Context, ownerID, projectID int64, modifications string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "generation.Regenerate")
	span.SetAttributes(
		attribute.Int64("project.id", projectID),
		attribute.Int64("owner.id", ownerID),
	)
	defer span.End()

	modifications = strings.TrimSpace(modifications)
	if modifications == "" {
		return nil, errors.ErrValidationFailed.WithDetail("modifications is required")
	}

	project, err := s.loadProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if !project.HasGeneratedCode() {
		return nil, errors.ErrNoGeneratedCode
	}

	historyPrompt := "Modifications: " + modifications

	start := time.Now()
	code, genErr := s.client.ModifyWebsite(ctx, *project.GeneratedCode, modifications, project.WebsiteType)
	elapsed := time.Since(start)

	if genErr != nil {
		s.recordFailure(ctx, projectID, historyPrompt, genErr, elapsed, "regenerate")
		return nil, errors.Wrap(genErr, errors.CodeGenerationFailed, "website regeneration failed")
	}

	project.ApplyRegeneration(code)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.recordSuccess(ctx, projectID, historyPrompt, code, elapsed, "regenerate")

	metrics.WebsiteGenerationTotal.WithLabelValues("regenerate", "success").Inc()
	metrics.WebsiteGenerationDuration.WithLabelValues("regenerate").Observe(elapsed.Seconds())
	metrics.WebsiteGeneratedBytes.WithLabelValues("regenerate").Observe(float64(len(code)))

	return &Result{Project: project, GenerationTime: elapsed.Seconds()}, nil
}

// loadProject 按属主加载项目，缺失时返回项目不存在错误
func (s *Service) loadProject(ctx context.Context, ownerID, projectID int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.ErrProjectNotFound.WithDetail(fmt.Sprintf("project %d", projectID))
	}
	return project, nil
}

// recordSuccess 追加成功历史，写入失败只告警不影响主流程
func (s *Service) recordSuccess(ctx context.Context, projectID int64, prompt, output string, elapsed time.Duration, kind string) {
	attempt := entity.NewSuccessAttempt(projectID, prompt, output, elapsed)
	if err := s.historyRepo.Append(ctx, attempt); err != nil {
		logger.Warn(ctx, "failed to append generation history",
			"project_id", projectID, "kind", kind, "error", err.Error())
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateHistory(ctx, projectID)
	}
}

// recordFailure 追加失败历史，写入失败只告警不影响主流程
func (s *Service) recordFailure(ctx context.Context, projectID int64, prompt string, genErr error, elapsed time.Duration, kind string) {
	metrics.WebsiteGenerationTotal.WithLabelValues(kind, "failure").Inc()
	metrics.WebsiteGenerationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	attempt := entity.NewFailedAttempt(projectID, prompt, genErr.Error(), elapsed)
	if err := s.historyRepo.Append(ctx, attempt); err != nil {
		logger.Warn(ctx, "failed to append generation history",
			"project_id", projectID, "kind", kind, "error", err.Error())
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateHistory(ctx, projectID)
	}
}
