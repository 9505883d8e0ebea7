package repository

import (
	"strings"
	"testing"

	"golang-invest-reporter/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildBaseTaskWithNoData(t *testing.T) {
	task := BuildBaseTask(&entity.AnalysisContext{Ticker: "AAPL"})

	assert.Contains(t, task, "Analyze the stock AAPL")
	assert.Equal(t, 4, strings.Count(task, DataUnavailable))
}

func TestBuildBaseTaskWithData(t *testing.T) {
	analysisCtx := &entity.AnalysisContext{
		Ticker:     "MSFT",
		Snapshot:   &entity.Snapshot{Price: 412.3, Volume: 1000},
		News:       []entity.NewsItem{{Title: "Azure grows", PublishedDate: "2026-08-20", Source: "Wire"}},
		Indicators: map[string]float64{"GDP": 23000, "UNRATE": 4.1},
	}
	task := BuildBaseTask(analysisCtx)

	assert.Contains(t, task, "price=412.30")
	assert.Contains(t, task, "Azure grows")
	assert.Contains(t, task, "GDP=23000.00 UNRATE=4.10")
	// Only the history is missing.
	assert.Equal(t, 1, strings.Count(task, DataUnavailable))
}

func TestBuildStagePromptRoles(t *testing.T) {
	analysisCtx := &entity.AnalysisContext{Ticker: "AAPL"}

	tests := []struct {
		stage entity.Stage
		want  string
	}{
		{entity.StageStock, "Senior Equity Analyst"},
		{entity.StageMarket, "Head of Market Strategy"},
		{entity.StageMacro, "Chief Economist"},
		{entity.StageNews, "Director of Financial Intelligence"},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			prompt := BuildStagePrompt(tt.stage, analysisCtx, 4000)
			assert.Contains(t, prompt, tt.want)
		})
	}
}

func TestBuildStagePromptInvestmentTruncatesPriorOutputs(t *testing.T) {
	long := strings.Repeat("x", 5000)
	analysisCtx := &entity.AnalysisContext{
		Ticker: "AAPL",
		Results: []entity.StageResult{
			{Stage: entity.StageStock, Output: long},
			{Stage: entity.StageMarket, Output: "markets are calm"},
			{Stage: entity.StageMacro, Output: "gdp is fine"},
			{Stage: entity.StageNews, Output: "no news"},
		},
	}

	prompt := BuildStagePrompt(entity.StageInvestment, analysisCtx, 4000)
	assert.Contains(t, prompt, "markets are calm")
	assert.Contains(t, prompt, strings.Repeat("x", 1000)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 1001))
}

func TestSystemPromptForEveryStage(t *testing.T) {
	stages := append([]entity.Stage{}, entity.TickerStages...)
	stages = append(stages, entity.StageAggregation)
	for _, stage := range stages {
		assert.NotEmpty(t, SystemPromptFor(stage), string(stage))
	}
	assert.Empty(t, SystemPromptFor(entity.Stage("bogus")))
}

func TestBuildReportTaskMissingRecommendation(t *testing.T) {
	task := BuildReportTask([]string{"AAPL", "MSFT"}, map[string]string{
		"AAPL": "## RECOMMENDATION: BUY",
	})

	assert.Contains(t, task, "## AAPL Analysis")
	assert.Contains(t, task, "## RECOMMENDATION: BUY")
	assert.Contains(t, task, "No recommendation available for MSFT")
}

func TestBuildEconomicImpactPrompt(t *testing.T) {
	prompt := BuildEconomicImpactPrompt("GDP", 22000, 23000.5, "2026-04-01  23000.50\n")
	assert.Contains(t, prompt, "GDP has crossed the threshold of 22000")
	assert.Contains(t, prompt, "current value is 23000.5")
	assert.Contains(t, prompt, "growth vs. value")
}

func TestBuildSectorPromptOrdersTickers(t *testing.T) {
	prompt := BuildSectorPrompt("Technology", map[string]string{
		"MSFT": "cloud",
		"AAPL": "phones",
	})
	assert.Contains(t, prompt, "Analyze the Technology sector")
	assert.Less(t, strings.Index(prompt, "AAPL"), strings.Index(prompt, "MSFT"))
}
