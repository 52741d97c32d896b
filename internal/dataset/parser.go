// Package dataset 负责把已上传的 Glassdoor 评论 CSV 解析为内部模型。
// 解析遵循"行不因单字段损坏而丢弃"的原则：坏字段置缺失并打标记。
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"glassdoor-insight-go/internal/model"
)

// 评分列合法区间，越界按缺失处理。
const (
	ratingMin = 1.0
	ratingMax = 5.0
)

// 识别的日期格式，按序尝试。
var dateLayouts = []string{"2006-01-02", "2006/01/02", "1/2/2006"}

// ParseReport 汇总一次解析的结果，坏字段按列名计数。
type ParseReport struct {
	TotalRows       int            `json:"totalRows"`
	RowsWithInvalid int            `json:"rowsWithInvalid"`
	InvalidByField  map[string]int `json:"invalidByField"`
}

// ParseReviews 按表头映射列并逐行解析评论。
// 必需列仅有 firm；其余列缺失时对应字段留空。
// 日期解析失败或评分越界时字段置缺失、字段名记入该行的 InvalidFields，行保留。
func ParseReviews(r io.Reader, datasetID uint) ([]*model.Review, *ParseReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 允许行宽不齐，缺失单元格按空处理

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["firm"]; !ok {
		return nil, nil, fmt.Errorf("CSV 缺少必需列 'firm', 实际表头: %v", header)
	}

	report := &ParseReport{InvalidByField: make(map[string]int)}
	var reviews []*model.Review
	rowIndex := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("读取 CSV 第 %d 行失败: %w", rowIndex+2, err)
		}

		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var invalid []string
		review := &model.Review{
			DatasetID:        datasetID,
			RowIndex:         rowIndex,
			Firm:             cell("firm"),
			JobTitle:         cell("job_title"),
			Location:         cell("location"),
			EmploymentStatus: simplifyEmployment(cell("current")),
			ProsText:         cell("pros"),
			ConsText:         cell("cons"),
		}

		if raw := cell("date_review"); raw != "" {
			if t, ok := parseDate(raw); ok {
				review.ReviewDate = &t
			} else {
				invalid = append(invalid, "date_review")
			}
		}

		ratings := []struct {
			name string
			dst  **float64
		}{
			{"overall_rating", &review.OverallRating},
			{"work_life_balance", &review.WorkLifeBalance},
			{"culture_values", &review.CultureValues},
			{"career_opp", &review.CareerOpp},
			{"comp_benefits", &review.CompBenefits},
			{"senior_mgmt", &review.SeniorMgmt},
		}
		for _, rt := range ratings {
			raw := cell(rt.name)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < ratingMin || v > ratingMax {
				invalid = append(invalid, rt.name)
				continue
			}
			value := v
			*rt.dst = &value
		}

		if len(invalid) > 0 {
			review.InvalidFields = strings.Join(invalid, ",")
			report.RowsWithInvalid++
			for _, f := range invalid {
				report.InvalidByField[f]++
			}
		}
		reviews = append(reviews, review)
		rowIndex++
	}
	report.TotalRows = rowIndex
	return reviews, report, nil
}

// simplifyEmployment 对 current 列做与原仪表盘相同的化简：
// 含 current 的算在职，含 former 的算离职，其余未知。
func simplifyEmployment(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "current"):
		return model.EmploymentCurrent
	case strings.Contains(lower, "former"):
		return model.EmploymentFormer
	default:
		return model.EmploymentUnknown
	}
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
