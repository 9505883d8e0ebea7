package service

import (
	"context"
	"sort"
	"testing"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorAnalyzeUnknownSector(t *testing.T) {
	svc := NewSectorService(&config.Config{}, logger.NewNop(), &fakePipeline{}, &fakeAI{})

	_, err := svc.Analyze(context.Background(), "Basketweaving")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sector")
}

func TestSectorAnalyzeRunsEveryConstituent(t *testing.T) {
	pipeline := &fakePipeline{outputs: map[entity.Stage]string{
		entity.StageStock: "steady",
	}}
	ai := &fakeAI{response: "sector looks healthy"}
	svc := NewSectorService(&config.Config{}, logger.NewNop(), pipeline, ai)

	analysis, err := svc.Analyze(context.Background(), "Technology")
	require.NoError(t, err)
	assert.Equal(t, "sector looks healthy", analysis)

	assert.Equal(t, SectorTickers["Technology"], pipeline.tickers)
	require.Equal(t, 1, ai.calls)
	assert.Contains(t, ai.prompts[0], "Analyze the Technology sector")
	assert.Contains(t, ai.prompts[0], "steady for NVDA")
}

func TestSectorNamesSorted(t *testing.T) {
	names := SectorNames()
	assert.Len(t, names, len(SectorTickers))
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "Energy")
}
