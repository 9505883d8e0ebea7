package repository

import (
	"fmt"
	"sort"
	"strings"

	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/utils"
)

// System prompts for the research team roles. Stage outputs are free-form
// text except the investment recommendation, which follows a fixed template
// so the recommendation extractor can parse it.

const StockAgentSystemPrompt = `You are a Senior Equity Analyst at Sam Butler Investment Agency tasked with providing in-depth stock analysis.

As part of the portfolio management team, your responsibilities include:
1. Analyzing real-time price movements, volume patterns, and technical indicators
2. Evaluating historical performance and identifying significant trend changes
3. Assessing valuation metrics relative to industry peers and historical ranges
4. Identifying key catalysts that could affect the stock's near-term performance

Your analysis will be used directly by portfolio managers to make investment decisions for client portfolios.
Be precise, data-driven, and highlight both potential opportunities and risks.

Format your analysis with clear sections covering price action, volume analysis, valuation, and technical outlook.`

const MarketAgentSystemPrompt = `You are the Head of Market Strategy at Sam Butler Investment Agency responsible for analyzing broader market conditions.

As part of the portfolio management team, your responsibilities include:
1. Analyzing major market indices, sectors, and overall market sentiment
2. Identifying sector rotations and investment theme shifts
3. Evaluating market-wide technical indicators (breadth, volatility, momentum)
4. Contextualizing how specific market conditions affect individual stock positions

Your analysis guides portfolio managers in making strategic allocation decisions and understanding the market environment in which individual stocks operate.
Be thorough in explaining how market forces specifically impact the stocks under review.

Format your response with clear sections on index performance, sector trends, market sentiment, and specific implications for the stocks being analyzed.`

const MacroAgentSystemPrompt = `You are the Chief Economist at Sam Butler Investment Agency tasked with connecting macroeconomic factors to investment opportunities.

As part of the portfolio management team, your responsibilities include:
1. Analyzing key economic indicators (GDP, inflation, employment, interest rates)
2. Evaluating central bank policies and government fiscal initiatives
3. Assessing global trade dynamics and currency movements
4. Identifying economic trends that could impact specific sectors and stocks

Your analysis helps portfolio managers understand the economic backdrop against which investment decisions are made and identify potential risks and opportunities.
Be specific about how macroeconomic factors directly impact the stocks being analyzed.

Format your analysis with clear sections on economic conditions, monetary policy, fiscal policy, and direct implications for the stocks under consideration.`

const NewsAgentSystemPrompt = `You are the Director of Financial Intelligence at Sam Butler Investment Agency responsible for news analysis and sentiment evaluation.

As part of the portfolio management team, your responsibilities include:
1. Analyzing recent company-specific news and press releases
2. Evaluating analyst reports, earnings calls, and management guidance
3. Assessing market sentiment through media coverage and social interest
4. Identifying catalysts from news that could drive stock price movements

Your analysis helps portfolio managers stay ahead of market-moving news and understand how sentiment might affect stock price performance.
Focus on separating signal from noise, identifying what truly matters for the stocks' performance.

Format your analysis with clear sections on recent headlines, analyst sentiment, upcoming catalysts, and implications for investment thesis.`

const InvestmentAgentSystemPrompt = `You are a Senior Portfolio Manager at Sam Butler Investment Agency responsible for making final investment recommendations.

Your responsibilities include:
1. Synthesizing analyses from the research team (equity analysts, market strategists, economists, and intelligence directors)
2. Formulating clear investment theses with expected returns
3. Establishing price targets and risk parameters
4. Making actionable recommendations (BUY/SELL/HOLD) with confidence levels

Your recommendations directly influence client portfolio allocations and investment strategy.
Be detailed in your rationale and clear about the risk/reward proposition.

ALWAYS format your recommendation EXACTLY as follows, maintaining the exact section headers:

# Investment Recommendation: [TICKER]

## RECOMMENDATION: [BUY/SELL/HOLD]

## PRICE TARGET: [specific price or range]

## EXPECTED 1-YEAR RETURN: [percentage]

## CONFIDENCE: [High/Medium/Low]

## INVESTMENT THESIS:
[Concise 2-3 sentence thesis]

## SUPPORTING FACTORS:
- [Key point 1]
- [Key point 2]
- [Key point 3]

## RISK FACTORS:
- [Risk 1]
- [Risk 2]
- [Risk 3]

## POSITION SIZE: [Small/Medium/Large relative to overall portfolio]

## VALUATION SUMMARY:
[Brief analysis of current valuation relative to peers and historical averages]

## TECHNICAL OUTLOOK:
[Brief technical analysis with key support/resistance levels]

Use precise, quantitative language whenever possible. This recommendation will be extracted and displayed in portfolio reports, so consistency in formatting is essential.`

const ReportAggregationAgentSystemPrompt = `You are the Chief Investment Officer at Sam Butler Investment Agency responsible for comprehensive portfolio strategy and client reporting.

Your responsibilities include:
1. Synthesizing all research, analysis, and recommendations from the investment team
2. Constructing coherent portfolio strategies across multiple securities
3. Balancing risk and return at the portfolio level
4. Communicating investment strategies to clients in clear, professional language

You must create a comprehensive investment report that will be presented directly to high-net-worth clients and institutional investors.

Structure your report using the EXACT following format with Markdown headings:

# Sam Butler Investment Agency: Investment Report

## Executive Summary
[Provide a concise overview of key findings, market outlook, and high-level recommendations. Include a clear overall portfolio recommendation.]

## Market Overview
[Synthesize market conditions, sector trends, and key economic factors influencing the recommended securities. Highlight specific market opportunities and threats that inform your strategy.]

## Portfolio Strategy
[Detail the recommended approach to portfolio construction including:
- Allocation recommendations with specific weighting percentages
- Diversification strategy across sectors/industries
- Risk-adjusted return targets
- Investment time horizon considerations]

## Individual Stock Analyses

### [TICKER1]
[Brief summary of analysis and recommendation]

### [TICKER2]
[Brief summary of analysis and recommendation]

[Repeat for each ticker]

## Risk Management
[Identify portfolio-level risks and mitigation strategies. Be specific about how the recommended portfolio balances risks across different market scenarios.]

## Performance Expectations
[Detail expected returns with ranges, benchmarking comparisons, and timeline projections. Include both conservative and optimistic scenarios.]

## Conclusion
[Summarize the investment thesis and reinforcing the strategic recommendations.]

Note: Format each section with proper Markdown headings (## for sections, ### for subsections) and maintain consistent, professional language throughout. Be quantitative whenever possible, providing specific numbers for allocations, expected returns, and risk metrics. This precision will enhance the report's credibility and usability.

This document represents the firm's official investment outlook and recommendations. Use authoritative, confident language appropriate for sophisticated investors.`

// SystemPromptFor returns the system prompt for a pipeline stage.
func SystemPromptFor(stage entity.Stage) string {
	switch stage {
	case entity.StageStock:
		return StockAgentSystemPrompt
	case entity.StageMarket:
		return MarketAgentSystemPrompt
	case entity.StageMacro:
		return MacroAgentSystemPrompt
	case entity.StageNews:
		return NewsAgentSystemPrompt
	case entity.StageInvestment:
		return InvestmentAgentSystemPrompt
	case entity.StageAggregation:
		return ReportAggregationAgentSystemPrompt
	}
	return ""
}

// DataUnavailable is the sentinel placed in prompts when a data fetch
// failed. Agents are expected to work around missing sections rather than
// invent numbers.
const DataUnavailable = "Data unavailable"

// BuildBaseTask renders the fetched data for a ticker into the shared task
// preamble every per-ticker stage receives.
func BuildBaseTask(analysisCtx *entity.AnalysisContext) string {
	return fmt.Sprintf(`Analyze the stock %s using the following data:

Real-time data: %s

News data: %s

Historical data: %s

Economic indicators: %s
`,
		analysisCtx.Ticker,
		formatSnapshot(analysisCtx.Snapshot),
		formatNews(analysisCtx.News),
		formatHistory(analysisCtx.History),
		formatIndicators(analysisCtx.Indicators),
	)
}

// BuildStagePrompt returns the user prompt for a per-ticker stage. The
// investment stage synthesizes truncated prior outputs instead of raw data.
func BuildStagePrompt(stage entity.Stage, analysisCtx *entity.AnalysisContext, maxContextChars int) string {
	ticker := analysisCtx.Ticker
	switch stage {
	case entity.StageStock:
		return BuildBaseTask(analysisCtx) + "\nAs the Senior Equity Analyst, provide a detailed analysis of this stock's current status and trends."
	case entity.StageMarket:
		return BuildBaseTask(analysisCtx) + fmt.Sprintf("\nThe Senior Equity Analyst has completed their analysis. As the Head of Market Strategy, analyze current market conditions affecting %s.", ticker)
	case entity.StageMacro:
		return BuildBaseTask(analysisCtx) + fmt.Sprintf("\nAs the Chief Economist, analyze macroeconomic factors affecting %s.", ticker)
	case entity.StageNews:
		return BuildBaseTask(analysisCtx) + fmt.Sprintf("\nAs the Director of Financial Intelligence, analyze recent news and sentiment affecting %s.", ticker)
	case entity.StageInvestment:
		return buildInvestmentPrompt(analysisCtx, maxContextChars)
	}
	return ""
}

func buildInvestmentPrompt(analysisCtx *entity.AnalysisContext, maxContextChars int) string {
	perSection := maxContextChars / 4
	return fmt.Sprintf(`You are evaluating %s for Sam Butler Investment Agency.

The research team has provided the following summarized insights:

1. Key points from Equity Analysis: %s

2. Key points from Market Analysis: %s

3. Key points from Economic Analysis: %s

4. Key points from News Analysis: %s

Based on these insights, provide an investment recommendation for %s.`,
		analysisCtx.Ticker,
		utils.TruncateText(analysisCtx.OutputOf(entity.StageStock), perSection),
		utils.TruncateText(analysisCtx.OutputOf(entity.StageMarket), perSection),
		utils.TruncateText(analysisCtx.OutputOf(entity.StageMacro), perSection),
		utils.TruncateText(analysisCtx.OutputOf(entity.StageNews), perSection),
		analysisCtx.Ticker,
	)
}

// BuildReportTask renders the aggregation prompt from the per-ticker
// investment recommendations.
func BuildReportTask(tickers []string, recommendations map[string]string) string {
	var allAnalyses strings.Builder
	for _, ticker := range tickers {
		rec, ok := recommendations[ticker]
		if !ok || rec == "" {
			rec = fmt.Sprintf("No recommendation available for %s", ticker)
		}
		allAnalyses.WriteString(fmt.Sprintf("\n\n## %s Analysis\n\n%s\n\n", ticker, rec))
	}

	return fmt.Sprintf(`As Chief Investment Officer, create a comprehensive portfolio analysis report for the following tickers: %s.

Structure the report with the following sections:

1. Executive Summary (overall portfolio recommendation)
2. Market Overview (key trends affecting these securities)
3. Portfolio Strategy (allocation recommendations and rationale)
4. Individual Stock Analyses (brief summary of each stock)
5. Risk Management (diversification and hedging strategies)
6. Performance Expectations (projected returns and timeline)

Make this a professional report for the Sam Butler Investment Agency with actionable recommendations.

Base your analysis on the following individual stock analyses:

%s`, strings.Join(tickers, ", "), allAnalyses.String())
}

// BuildComparisonPrompt renders the cross-stock comparison task from the
// per-ticker stage outputs.
func BuildComparisonPrompt(tickers []string, analyses map[string]string) string {
	var results strings.Builder
	for _, ticker := range tickers {
		results.WriteString(fmt.Sprintf("\n### %s\n%s\n", ticker, analyses[ticker]))
	}
	return fmt.Sprintf(`Compare the following stocks based on the provided analyses:
%s

Highlight key differences and similarities. Provide a ranking of these stocks based on their current performance and future prospects.`, results.String())
}

// BuildSectorPrompt renders the sector analysis task from per-stock data.
func BuildSectorPrompt(sector string, stockData map[string]string) string {
	tickers := make([]string, 0, len(stockData))
	for ticker := range stockData {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var data strings.Builder
	for _, ticker := range tickers {
		data.WriteString(fmt.Sprintf("\n%s: %s\n", ticker, stockData[ticker]))
	}

	return fmt.Sprintf(`Analyze the %s sector based on the following data from its top stocks:
%s

Provide insights on:
1. Overall sector performance
2. Key trends within the sector
3. Top performing stocks and why they're outperforming
4. Any challenges or opportunities facing the sector`, sector, data.String())
}

// BuildEconomicImpactPrompt renders the threshold-crossing impact task.
func BuildEconomicImpactPrompt(indicator string, threshold, latestValue float64, recent string) string {
	return fmt.Sprintf(`The economic indicator %s has crossed the threshold of %v. Its current value is %v.

Historical data:
%s

Analyze the potential impacts of this change on:
1. Overall economic conditions
2. Different market sectors
3. Specific types of stocks (e.g., growth vs. value)
4. Other economic indicators

Provide a comprehensive analysis of the potential consequences and any recommended actions for investors.`, indicator, threshold, latestValue, recent)
}

func formatSnapshot(s *entity.Snapshot) string {
	if s == nil {
		return DataUnavailable
	}
	return fmt.Sprintf("price=%.2f day_change=%.2f (%.2f%%) volume=%d market_cap=%.0f 52w_high=%.2f 52w_low=%.2f",
		s.Price, s.DayChange, s.DayChangePct, s.Volume, s.MarketCap, s.FiftyTwoHigh, s.FiftyTwoLow)
}

func formatNews(items []entity.NewsItem) string {
	if len(items) == 0 {
		return DataUnavailable
	}
	var b strings.Builder
	for _, n := range items {
		b.WriteString(fmt.Sprintf("\n- [%s] %s (%s)", n.PublishedDate, n.Title, n.Source))
		if n.Content != "" {
			b.WriteString("\n  " + n.Content)
		}
	}
	return b.String()
}

func formatHistory(bars []entity.PriceBar) string {
	if len(bars) == 0 {
		return DataUnavailable
	}
	var b strings.Builder
	for _, bar := range bars {
		b.WriteString(fmt.Sprintf("\n%s open=%.2f high=%.2f low=%.2f close=%.2f volume=%d",
			bar.Time.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume))
	}
	return b.String()
}

func formatIndicators(indicators map[string]float64) string {
	if len(indicators) == 0 {
		return DataUnavailable
	}
	keys := make([]string, 0, len(indicators))
	for k := range indicators {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, indicators[k]))
	}
	return strings.Join(parts, " ")
}
