package service

import (
	"context"
	"fmt"
	"testing"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/dto"
	"golang-invest-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdCrossed(t *testing.T) {
	tests := []struct {
		name      string
		previous  float64
		latest    float64
		threshold float64
		want      bool
	}{
		{"crossed upward", 21000, 23000, 22000, true},
		{"crossed downward", 23000, 21000, 22000, true},
		{"both below", 20000, 21000, 22000, false},
		{"both above", 23000, 24000, 22000, false},
		{"left threshold upward", 22000, 23000, 22000, true},
		{"left threshold downward", 22000, 21000, 22000, true},
		{"landed on threshold", 21000, 22000, 22000, false},
		{"both on threshold", 22000, 22000, 22000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThresholdCrossed(tt.previous, tt.latest, tt.threshold))
		})
	}
}

type fakeEconData struct {
	points []dto.IndicatorPoint
	err    error
}

func (f *fakeEconData) Series(ctx context.Context, seriesID, startDate, endDate string) ([]dto.IndicatorPoint, error) {
	return f.points, f.err
}

func (f *fakeEconData) Latest(ctx context.Context, seriesIDs []string) (map[string]float64, error) {
	values := map[string]float64{}
	for _, id := range seriesIDs {
		if len(f.points) > 0 {
			values[id] = f.points[len(f.points)-1].Value
		}
	}
	return values, f.err
}

type fakeAI struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	if f.response != "" {
		return f.response, nil
	}
	return "analysis of: " + userPrompt, nil
}

func TestEconomicImpactCheckNoCrossingSkipsModel(t *testing.T) {
	econ := &fakeEconData{points: []dto.IndicatorPoint{
		{Date: "2026-01-01", Value: 20000},
		{Date: "2026-04-01", Value: 21000},
	}}
	ai := &fakeAI{}
	svc := NewEconomicImpactService(&config.Config{}, logger.NewNop(), econ, ai, nil)

	result, err := svc.Check(context.Background(), "GDP", 22000)
	require.NoError(t, err)
	assert.False(t, result.Crossed)
	assert.Contains(t, result.Analysis, "has not crossed the threshold")
	assert.Zero(t, ai.calls, "no model call expected without a crossing")
}

func TestEconomicImpactCheckCrossingRunsAnalysis(t *testing.T) {
	econ := &fakeEconData{points: []dto.IndicatorPoint{
		{Date: "2025-10-01", Value: 20500},
		{Date: "2026-01-01", Value: 21000},
		{Date: "2026-04-01", Value: 23000},
	}}
	ai := &fakeAI{response: "rates will bite"}
	svc := NewEconomicImpactService(&config.Config{}, logger.NewNop(), econ, ai, nil)

	result, err := svc.Check(context.Background(), "GDP", 22000)
	require.NoError(t, err)
	assert.True(t, result.Crossed)
	assert.Equal(t, 21000.0, result.Previous)
	assert.Equal(t, 23000.0, result.Latest)
	assert.Equal(t, "rates will bite", result.Analysis)
	assert.Equal(t, 1, ai.calls)
	assert.Contains(t, ai.prompts[0], "GDP has crossed the threshold of 22000")
}

func TestEconomicImpactCheckTooFewObservations(t *testing.T) {
	econ := &fakeEconData{points: []dto.IndicatorPoint{{Date: "2026-04-01", Value: 23000}}}
	svc := NewEconomicImpactService(&config.Config{}, logger.NewNop(), econ, &fakeAI{}, nil)

	_, err := svc.Check(context.Background(), "UNRATE", 4)
	assert.Error(t, err)
}

func TestEconomicImpactCheckFetchError(t *testing.T) {
	econ := &fakeEconData{err: fmt.Errorf("boom")}
	svc := NewEconomicImpactService(&config.Config{}, logger.NewNop(), econ, &fakeAI{}, nil)

	_, err := svc.Check(context.Background(), "GDP", 22000)
	assert.Error(t, err)
}
