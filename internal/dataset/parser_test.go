package dataset

import (
	"strings"
	"testing"

	"glassdoor-insight-go/internal/model"
)

const sampleHeader = "firm,date_review,job_title,current,location,overall_rating,work_life_balance,culture_values,career_opp,comp_benefits,senior_mgmt,pros,cons\n"

func TestParseReviewsBasic(t *testing.T) {
	csvData := sampleHeader +
		"Acme,2021-03-15,Engineer,\"Current Employee, more than 3 years\",\"Boston, MA\",4,3.5,4,4,5,3,Great culture,Long hours\n"

	reviews, report, err := ParseReviews(strings.NewReader(csvData), 1)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if report.TotalRows != 1 || report.RowsWithInvalid != 0 {
		t.Fatalf("解析报告不符: %+v", report)
	}

	r := reviews[0]
	if r.Firm != "Acme" || r.JobTitle != "Engineer" || r.Location != "Boston, MA" {
		t.Fatalf("文本字段不符: %+v", r)
	}
	if r.EmploymentStatus != model.EmploymentCurrent {
		t.Fatalf("雇佣状态不符, got %s", r.EmploymentStatus)
	}
	if r.ReviewDate == nil || r.ReviewDate.Format("2006-01-02") != "2021-03-15" {
		t.Fatalf("日期解析不符: %v", r.ReviewDate)
	}
	if r.OverallRating == nil || *r.OverallRating != 4 {
		t.Fatalf("overall_rating 不符: %v", r.OverallRating)
	}
	if r.WorkLifeBalance == nil || *r.WorkLifeBalance != 3.5 {
		t.Fatalf("work_life_balance 不符: %v", r.WorkLifeBalance)
	}
	if r.ProsText != "Great culture" || r.ConsText != "Long hours" {
		t.Fatalf("评论文本不符: %+v", r)
	}
}

func TestParseReviewsMalformedFieldsKept(t *testing.T) {
	csvData := sampleHeader +
		"Acme,not-a-date,Engineer,Former Employee,NYC,abc,9,4,,3,2,Pros here,Cons here\n"

	reviews, report, err := ParseReviews(strings.NewReader(csvData), 1)
	if err != nil {
		t.Fatalf("坏字段不应导致整行失败: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("坏字段的行应保留, got %d 行", len(reviews))
	}

	r := reviews[0]
	if r.ReviewDate != nil {
		t.Fatalf("非法日期应置缺失, got %v", r.ReviewDate)
	}
	if r.OverallRating != nil {
		t.Fatalf("非数值评分应置缺失, got %v", r.OverallRating)
	}
	// 9 超出 [1,5] 区间
	if r.WorkLifeBalance != nil {
		t.Fatalf("越界评分应置缺失, got %v", r.WorkLifeBalance)
	}
	// 空单元格是正常缺失，不算坏字段
	if r.CareerOpp != nil {
		t.Fatalf("空评分应置缺失, got %v", r.CareerOpp)
	}

	if !strings.Contains(r.InvalidFields, "date_review") ||
		!strings.Contains(r.InvalidFields, "overall_rating") ||
		!strings.Contains(r.InvalidFields, "work_life_balance") {
		t.Fatalf("坏字段标记不符: %q", r.InvalidFields)
	}
	if strings.Contains(r.InvalidFields, "career_opp") {
		t.Fatalf("空单元格不应标为坏字段: %q", r.InvalidFields)
	}
	if report.RowsWithInvalid != 1 {
		t.Fatalf("解析报告不符: %+v", report)
	}
	if report.InvalidByField["overall_rating"] != 1 {
		t.Fatalf("按列坏字段计数不符: %+v", report.InvalidByField)
	}
}

func TestParseReviewsEmploymentStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Current Employee", model.EmploymentCurrent},
		{"\"Current Employee, less than 1 year\"", model.EmploymentCurrent},
		{"Former Employee", model.EmploymentFormer},
		{"Freelancer", model.EmploymentUnknown},
		{"", model.EmploymentUnknown},
	}
	for _, tc := range cases {
		csvData := "firm,current\nAcme," + tc.raw + "\n"
		reviews, _, err := ParseReviews(strings.NewReader(csvData), 1)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", tc.raw, err)
		}
		if got := reviews[0].EmploymentStatus; got != tc.want {
			t.Fatalf("雇佣状态化简不符: raw=%q, got %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseReviewsMissingFirmColumn(t *testing.T) {
	csvData := "company,pros,cons\nAcme,Good,Bad\n"
	if _, _, err := ParseReviews(strings.NewReader(csvData), 1); err == nil {
		t.Fatalf("缺少 firm 列应报错")
	}
}

func TestParseReviewsRaggedRows(t *testing.T) {
	// 第二行比表头少列，缺的单元格按空处理
	csvData := "firm,job_title,overall_rating\nAcme,Engineer\n"
	reviews, _, err := ParseReviews(strings.NewReader(csvData), 1)
	if err != nil {
		t.Fatalf("行宽不齐不应报错: %v", err)
	}
	r := reviews[0]
	if r.Firm != "Acme" || r.JobTitle != "Engineer" || r.OverallRating != nil {
		t.Fatalf("缺失单元格处理不符: %+v", r)
	}
}

func TestParseReviewsAlternateDateFormats(t *testing.T) {
	csvData := "firm,date_review\nA,2021/06/01\nB,6/1/2021\n"
	reviews, _, err := ParseReviews(strings.NewReader(csvData), 1)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	for i, r := range reviews {
		if r.ReviewDate == nil || r.ReviewDate.Format("2006-01-02") != "2021-06-01" {
			t.Fatalf("第 %d 行日期解析不符: %v", i, r.ReviewDate)
		}
	}
}

func TestParseReviewsRowIndexSequential(t *testing.T) {
	csvData := "firm\nA\nB\nC\n"
	reviews, report, err := ParseReviews(strings.NewReader(csvData), 7)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if report.TotalRows != 3 {
		t.Fatalf("总行数不符: %+v", report)
	}
	for i, r := range reviews {
		if r.RowIndex != i {
			t.Fatalf("行号不连续: 第 %d 条的 RowIndex=%d", i, r.RowIndex)
		}
		if r.DatasetID != 7 {
			t.Fatalf("DatasetID 不符: %d", r.DatasetID)
		}
	}
}
