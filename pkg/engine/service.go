// Package engine wires the pure annotation core (rules, linker, audit) to
// its collaborators: the rule store, the content repository and the edit
// reference resolver. It owns observability; the core packages stay pure.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linkweaver/linkweaver-oss/pkg/audit"
	"github.com/linkweaver/linkweaver-oss/pkg/domain"
	"github.com/linkweaver/linkweaver-oss/pkg/linker"
	"github.com/linkweaver/linkweaver-oss/pkg/telemetry"
)

// Options configure a Service. Rules is required; the rest are optional.
type Options struct {
	Rules    domain.RuleStore
	Content  domain.ContentRepository
	EditRefs domain.EditReferenceResolver
	Metrics  *telemetry.Metrics
	Logger   zerolog.Logger
}

// Service exposes the transform and audit operations over the collaborator
// contracts. All mutable state is per-call; a Service is safe for concurrent
// use.
type Service struct {
	rules   domain.RuleStore
	content domain.ContentRepository
	metrics *telemetry.Metrics
	logger  zerolog.Logger
	tracer  trace.Tracer
	auditor audit.Auditor
}

// NewService constructs a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Rules == nil {
		return nil, fmt.Errorf("engine: rule store is required")
	}
	return &Service{
		rules:   opts.Rules,
		content: opts.Content,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		tracer:  otel.Tracer("linkweaver.engine"),
		auditor: audit.Auditor{EditRefs: opts.EditRefs},
	}, nil
}

// TransformContent annotates raw content with the current rule set. The
// contract is apply-exactly-once: callers pass the unannotated source and
// use the result as the final rendered form, never feeding output back in.
// If the rule set cannot be loaded the raw content is returned unchanged
// alongside the error, so a rendering caller can always fall back to
// displaying the original.
func (s *Service) TransformContent(ctx context.Context, raw string, item domain.ContentItem) (string, error) {
	ctx, span := s.tracer.Start(ctx, "engine.TransformContent", trace.WithAttributes(
		attribute.String("content.id", item.ID),
		attribute.String("content.type", item.Type),
	))
	defer span.End()

	start := time.Now()

	ruleSet, err := s.rules.ListActiveRules(ctx)
	if err != nil {
		s.recordTransform("error", start, linker.Stats{})
		return raw, fmt.Errorf("list active rules: %w", err)
	}

	annotated, stats := linker.TransformWithStats(raw, item, ruleSet)
	s.recordTransform("ok", start, stats)

	s.logger.Debug().
		Str("content_id", item.ID).
		Int("anchors", stats.AnchorsInserted).
		Int("skipped_overlap", stats.SkippedOverlap).
		Int("skipped_boundary", stats.SkippedBoundary).
		Int("skipped_limit", stats.SkippedLimit).
		Msg("content transformed")

	return annotated, nil
}

// TransformItem loads a content item from the repository and annotates its
// raw markup.
func (s *Service) TransformItem(ctx context.Context, itemID string) (string, error) {
	if s.content == nil {
		return "", fmt.Errorf("engine: content repository not configured")
	}

	item, err := s.content.GetRawContent(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("load content %s: %w", itemID, err)
	}
	return s.TransformContent(ctx, item.RawMarkup, *item)
}

// Rule returns a rule from the store by id.
func (s *Service) Rule(ctx context.Context, id string) (*domain.LinkRule, error) {
	return s.rules.GetRule(ctx, id)
}

// AuditItems runs the usage auditor for one rule over a caller-supplied
// candidate set.
func (s *Service) AuditItems(ctx context.Context, rule domain.LinkRule, candidates []domain.ContentItem) domain.UsageReport {
	_, span := s.tracer.Start(ctx, "engine.AuditItems", trace.WithAttributes(
		attribute.String("rule.id", rule.ID),
		attribute.Int("candidates", len(candidates)),
	))
	defer span.End()

	start := time.Now()
	report := s.auditor.Audit(rule, candidates)
	report.ReportID = uuid.NewString()

	if s.metrics != nil {
		s.metrics.RecordAudit("ok", time.Since(start), report.TotalCount)
	}

	s.logger.Debug().
		Str("rule_id", rule.ID).
		Int("total", report.TotalCount).
		Int("items", report.DistinctItemCount).
		Msg("rule audited")

	return report
}

// AuditRule resolves the rule and its candidate corpus (coarse substring
// pre-filter via the content repository, restricted to the rule's allowed
// types and exclusions) and audits it.
func (s *Service) AuditRule(ctx context.Context, ruleID string) (domain.UsageReport, error) {
	if s.content == nil {
		return domain.UsageReport{}, fmt.Errorf("engine: content repository not configured")
	}

	rule, err := s.rules.GetRule(ctx, ruleID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAudit("error", 0, 0)
		}
		return domain.UsageReport{}, fmt.Errorf("load rule %s: %w", ruleID, err)
	}

	candidates, err := s.content.FindCandidates(ctx, rule.Keyword, rule.AllowedContentTypes, rule.ExcludedContentIDs)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAudit("error", 0, 0)
		}
		return domain.UsageReport{}, fmt.Errorf("find candidates for rule %s: %w", ruleID, err)
	}

	return s.AuditItems(ctx, *rule, candidates), nil
}

func (s *Service) recordTransform(status string, start time.Time, stats linker.Stats) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordTransform(status, time.Since(start),
		stats.AnchorsInserted, stats.SkippedOverlap, stats.SkippedBoundary, stats.SkippedLimit, stats.RulesSkipped)
}
