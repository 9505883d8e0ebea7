package service

import (
	"context"
	"fmt"
	"strings"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/dto"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/telegram"
	"golang-invest-reporter/pkg/utils"
)

// ThresholdCrossed reports whether an indicator crossed the threshold
// between its previous and latest observations. A crossing requires exactly
// one of the two points strictly on the far side of the threshold; two
// observations sitting exactly on the threshold is not a crossing.
func ThresholdCrossed(previous, latest, threshold float64) bool {
	return (latest > threshold && previous <= threshold) ||
		(latest < threshold && previous >= threshold)
}

// EconomicImpactResult is the outcome of one threshold check.
type EconomicImpactResult struct {
	Indicator string
	Threshold float64
	Previous  float64
	Latest    float64
	Crossed   bool
	Analysis  string
}

// EconomicImpactService watches a FRED indicator against a threshold and
// produces an impact analysis when it is crossed.
type EconomicImpactService interface {
	Check(ctx context.Context, indicator string, threshold float64) (*EconomicImpactResult, error)
}

type economicImpactService struct {
	cfg      *config.Config
	log      *logger.Logger
	econData repository.EconomicDataRepository
	ai       repository.AIRepository
	notifier telegram.Notifier
}

// NewEconomicImpactService creates the threshold monitor service.
func NewEconomicImpactService(
	cfg *config.Config,
	log *logger.Logger,
	econData repository.EconomicDataRepository,
	ai repository.AIRepository,
	notifier telegram.Notifier,
) EconomicImpactService {
	return &economicImpactService{
		cfg:      cfg,
		log:      log,
		econData: econData,
		ai:       ai,
		notifier: notifier,
	}
}

// Check fetches one year of observations for the indicator and, when the
// last two points cross the threshold, runs the impact analysis and sends
// the alert. Without a crossing it returns a plain message and makes no
// model call.
func (s *economicImpactService) Check(ctx context.Context, indicator string, threshold float64) (*EconomicImpactResult, error) {
	points, err := s.econData.Series(ctx, indicator, utils.DaysAgo(365), utils.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch indicator %s: %w", indicator, err)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("not enough observations for indicator %s", indicator)
	}

	previous := points[len(points)-2].Value
	latest := points[len(points)-1].Value

	result := &EconomicImpactResult{
		Indicator: indicator,
		Threshold: threshold,
		Previous:  previous,
		Latest:    latest,
		Crossed:   ThresholdCrossed(previous, latest, threshold),
	}

	if !result.Crossed {
		result.Analysis = fmt.Sprintf("The %s indicator has not crossed the threshold of %v. Current value: %v", indicator, threshold, latest)
		s.log.Info("Indicator has not crossed threshold",
			logger.StringField("indicator", indicator),
			logger.Float64Field("threshold", threshold),
			logger.Float64Field("latest", latest),
		)
		return result, nil
	}

	s.log.Info("Indicator crossed threshold",
		logger.StringField("indicator", indicator),
		logger.Float64Field("threshold", threshold),
		logger.Float64Field("latest", latest),
	)

	prompt := repository.BuildEconomicImpactPrompt(indicator, threshold, latest, formatRecentPoints(points, 5))
	analysis, err := s.ai.Generate(ctx, repository.ReportAggregationAgentSystemPrompt, prompt)
	if err != nil {
		return result, fmt.Errorf("economic impact analysis failed: %w", err)
	}
	result.Analysis = analysis

	if s.notifier != nil {
		if err := s.notifier.SendMessage(telegram.FormatThresholdAlertMessage(indicator, threshold, previous, latest)); err != nil {
			s.log.Warn("Failed to send threshold alert", logger.ErrorField(err))
		}
	}
	return result, nil
}

func formatRecentPoints(points []dto.IndicatorPoint, n int) string {
	if len(points) > n {
		points = points[len(points)-n:]
	}
	var b strings.Builder
	for _, p := range points {
		b.WriteString(fmt.Sprintf("%s  %.2f\n", p.Date, p.Value))
	}
	return b.String()
}
