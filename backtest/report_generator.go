package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"tickmill/utils"
)

// reportTemplate 回测报告模板
const reportTemplate = `# 回测报告

- 生成时间: {{.GeneratedAt}}
- 回放区间: {{.StartTime}} ~ {{.EndTime}}
- 初始资金: {{.InitialCash}}
- 最终现金: {{.FinalCash}}
- 成交笔数: {{.TradeCount}}

## 持仓

| 标的 | 数量 | 平均成本 |
|---|---|---|
{{- range .Positions}}
| {{.Symbol}} | {{.Quantity}} | {{.AvgPrice}} |
{{- end}}

## 分标的绩效

| 标的 | 初始权益 | 最终权益 | 总收益率 | 夏普比率 | 最大回撤 | VaR95 | CVaR95 |
|---|---|---|---|---|---|---|---|
{{- range .Symbols}}
| {{.Symbol}} | {{.InitialEquity}} | {{.FinalEquity}} | {{.TotalReturn}} | {{.Sharpe}} | {{.MaxDrawdown}} | {{.VaR95}} | {{.CVaR95}} |
{{- end}}
{{- if .SymbolErrors}}

## 回放失败的标的

{{- range .SymbolErrors}}
- {{.}}
{{- end}}
{{- end}}
`

type reportPositionRow struct {
	Symbol   string
	Quantity int
	AvgPrice string
}

type reportSymbolRow struct {
	Symbol        string
	InitialEquity string
	FinalEquity   string
	TotalReturn   string
	Sharpe        string
	MaxDrawdown   string
	VaR95         string
	CVaR95        string
}

type reportData struct {
	GeneratedAt  string
	StartTime    string
	EndTime      string
	InitialCash  string
	FinalCash    string
	TradeCount   int
	Positions    []reportPositionRow
	Symbols      []reportSymbolRow
	SymbolErrors []string
}

// GenerateReport 生成 Markdown 回测报告，返回报告文件路径
func GenerateReport(result *RunResult, reportDir string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("回测结果为空")
	}
	if reportDir == "" {
		reportDir = "reports"
	}

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	timestamp := utils.ToConfiguredTimezone(time.Now()).Format("2006-01-02_15-04-05")
	reportPath := filepath.Join(reportDir, fmt.Sprintf("backtest_%s.md", timestamp))

	data := prepareReportData(result)

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("解析报告模板失败: %w", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("渲染报告模板失败: %w", err)
	}

	if err := os.WriteFile(reportPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	return reportPath, nil
}

// prepareReportData 准备报告数据
func prepareReportData(result *RunResult) *reportData {
	data := &reportData{
		GeneratedAt: utils.ToConfiguredTimezone(time.Now()).Format("2006-01-02 15:04:05"),
		StartTime:   result.StartTime.Format("2006-01-02 15:04:05"),
		EndTime:     result.EndTime.Format("2006-01-02 15:04:05"),
		InitialCash: fmt.Sprintf("%.2f", result.InitialCash),
		FinalCash:   fmt.Sprintf("%.2f", result.FinalCash),
		TradeCount:  len(result.Trades),
	}

	posSymbols := make([]string, 0, len(result.Positions))
	for symbol := range result.Positions {
		posSymbols = append(posSymbols, symbol)
	}
	sort.Strings(posSymbols)
	for _, symbol := range posSymbols {
		pos := result.Positions[symbol]
		data.Positions = append(data.Positions, reportPositionRow{
			Symbol:   symbol,
			Quantity: pos.Quantity,
			AvgPrice: fmt.Sprintf("%.4f", pos.AvgPrice),
		})
	}

	curveSymbols := make([]string, 0, len(result.Metrics))
	for symbol := range result.Metrics {
		curveSymbols = append(curveSymbols, symbol)
	}
	sort.Strings(curveSymbols)
	for _, symbol := range curveSymbols {
		m := result.Metrics[symbol]
		risk := result.RiskMetrics[symbol]
		data.Symbols = append(data.Symbols, reportSymbolRow{
			Symbol:        symbol,
			InitialEquity: fmt.Sprintf("%.2f", m.InitialEquity),
			FinalEquity:   fmt.Sprintf("%.2f", m.FinalEquity),
			TotalReturn:   fmt.Sprintf("%.2f%%", m.TotalReturn*100),
			Sharpe:        fmt.Sprintf("%.2f", m.Sharpe),
			MaxDrawdown:   fmt.Sprintf("%.2f%%", m.MaxDrawdown*100),
			VaR95:         fmt.Sprintf("%.2f%%", risk.VaR95*100),
			CVaR95:        fmt.Sprintf("%.2f%%", risk.CVaR95*100),
		})
	}

	for symbol, reason := range result.SymbolErrors {
		data.SymbolErrors = append(data.SymbolErrors, fmt.Sprintf("%s: %s", symbol, reason))
	}
	sort.Strings(data.SymbolErrors)

	return data
}

// SaveEquityCurveCSV 将各标的的权益曲线导出为CSV，返回文件路径列表
func SaveEquityCurveCSV(result *RunResult, reportDir string) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("回测结果为空")
	}
	if reportDir == "" {
		reportDir = "reports"
	}

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("创建报告目录失败: %w", err)
	}

	paths := make([]string, 0, len(result.EquityCurve))
	for symbol, curve := range result.EquityCurve {
		path := filepath.Join(reportDir, fmt.Sprintf("equity_%s.csv", symbol))
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("创建权益曲线文件失败: %w", err)
		}

		writer := csv.NewWriter(file)
		if err := writer.Write([]string{"timestamp", "equity"}); err != nil {
			file.Close()
			return nil, fmt.Errorf("写入表头失败: %w", err)
		}
		for _, point := range curve {
			record := []string{
				point.Timestamp.Format(time.RFC3339),
				strconv.FormatFloat(point.Equity, 'f', 4, 64),
			}
			if err := writer.Write(record); err != nil {
				file.Close()
				return nil, fmt.Errorf("写入权益点失败: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			file.Close()
			return nil, err
		}
		file.Close()

		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths, nil
}
