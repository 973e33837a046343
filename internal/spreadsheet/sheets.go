package spreadsheet

import (
	"fmt"
	"strconv"
	"time"

	"seenjeem-admin/internal/domain"
)

// Column sets shared by templates, imports and exports.
var (
	MainCategoryColumns = []string{"name_ar", "display_order", "is_active", "media_url"}
	SubCategoryColumns  = []string{"main_category_name_ar", "name_ar", "display_order", "is_active", "media_url"}
	QuestionColumns     = []string{
		"main_category_name_ar", "sub_category_name_ar", "points",
		"question_text_ar", "answer_text_ar", "question_media_url", "answer_media_url", "status",
	}
)

const exportDateLayout = "Jan 2, 2006"

// TemplateFilename is the download name of a kind's template.
func TemplateFilename(kind domain.ImportKind) string {
	return underscored(kind) + "_template.xlsx"
}

// ExportFilename is the download name of a kind's export.
func ExportFilename(kind domain.ImportKind) string {
	return underscored(kind) + ".xlsx"
}

func underscored(kind domain.ImportKind) string {
	switch kind {
	case domain.ImportMainCategories:
		return "main_categories"
	case domain.ImportSubCategories:
		return "sub_categories"
	}
	return string(kind)
}

// Template returns the sample workbook for an import kind.
func Template(kind domain.ImportKind) (Sheet, error) {
	switch kind {
	case domain.ImportMainCategories:
		return Sheet{Name: "Data", Columns: MainCategoryColumns, Rows: [][]any{
			{"الفئة الرئيسية 1", 0, "true", ""},
			{"الفئة الرئيسية 2", 1, "true", ""},
		}}, nil
	case domain.ImportSubCategories:
		return Sheet{Name: "Data", Columns: SubCategoryColumns, Rows: [][]any{
			{"الفئة الرئيسية 1", "الفئة الفرعية 1", 0, "true", "https://example.com/image.jpg"},
			{"الفئة الرئيسية 1", "الفئة الفرعية 2", 1, "true", "https://example.com/image2.jpg"},
		}}, nil
	case domain.ImportQuestions:
		return Sheet{Name: "Data", Columns: QuestionColumns, Rows: [][]any{
			{"الفئة الرئيسية 1", "الفئة الفرعية 1", 200, "ما هي عاصمة السعودية؟", "الرياض", "", "", "active"},
			{"الفئة الرئيسية 1", "الفئة الفرعية 1", 400, "متى تأسست المملكة العربية السعودية؟", "1932م", "", "", "active"},
			{"الفئة الرئيسية 1", "الفئة الفرعية 1", 600, "من هو مؤسس المملكة العربية السعودية؟", "الملك عبدالعزيز بن عبدالرحمن آل سعود", "", "", "active"},
		}}, nil
	}
	return Sheet{}, fmt.Errorf("%w: %q", domain.ErrUnknownImportKind, kind)
}

// MainCategoriesSheet exports main categories with the template columns plus created_at.
func MainCategoriesSheet(cats []domain.MainCategory) Sheet {
	s := Sheet{Name: "Main Categories", Columns: withCreatedAt(MainCategoryColumns)}
	for _, c := range cats {
		s.Rows = append(s.Rows, []any{
			c.NameAr, c.DisplayOrder, strconv.FormatBool(c.IsActive), c.MediaURL, exportDate(c.CreatedAt),
		})
	}
	return s
}

// SubCategoriesSheet exports sub-categories. MainCategoryName must already be joined.
func SubCategoriesSheet(subs []domain.SubCategory) Sheet {
	s := Sheet{Name: "Sub Categories", Columns: withCreatedAt(SubCategoryColumns)}
	for _, c := range subs {
		s.Rows = append(s.Rows, []any{
			c.MainCategoryName, c.NameAr, c.DisplayOrder, strconv.FormatBool(c.IsActive), c.MediaURL, exportDate(c.CreatedAt),
		})
	}
	return s
}

// QuestionsSheet exports joined questions in the import column order.
func QuestionsSheet(questions []domain.QuestionView) Sheet {
	s := Sheet{Name: "Questions", Columns: withCreatedAt(QuestionColumns)}
	for _, q := range questions {
		s.Rows = append(s.Rows, []any{
			q.MainCategoryName, q.SubCategoryName, int(q.Points),
			q.QuestionTextAr, q.AnswerTextAr, q.QuestionMediaURL, q.AnswerMediaURL,
			string(q.Status), exportDate(q.CreatedAt),
		})
	}
	return s
}

func withCreatedAt(cols []string) []string {
	out := make([]string, 0, len(cols)+1)
	out = append(out, cols...)
	return append(out, "created_at")
}

func exportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportDateLayout)
}
