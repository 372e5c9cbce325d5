package batch

import (
	"github.com/phenoage-mcp-server/internal/domain"
)

// WriteExample writes a template subject file to path in the format the
// extension names. The template carries the canonical biomarker columns, a
// few typical metadata columns and two sample subjects.
func WriteExample(path string) error {
	columns := []string{"ID", "Sex", "Collection_Date"}
	for _, b := range domain.BiomarkerOrder {
		columns = append(columns, string(b))
	}

	table := &Table{
		Columns: columns,
		Records: []Record{
			{
				"ID":                   "SUBJ001",
				"Sex":                  "M",
				"Collection_Date":      "2024-10-15",
				"albumin":              4.47,
				"creatinine":           1.17,
				"glucose":              77.0,
				"crp":                  0.07,
				"lymphocyte":           36.0,
				"mcv":                  90.0,
				"rdw":                  13.7,
				"alkaline_phosphatase": 54.0,
				"wbc":                  4.5,
				"chronological_age":    46.0,
			},
			{
				"ID":                   "SUBJ002",
				"Sex":                  "F",
				"Collection_Date":      "2024-10-16",
				"albumin":              4.2,
				"creatinine":           0.9,
				"glucose":              85.0,
				"crp":                  0.12,
				"lymphocyte":           32.0,
				"mcv":                  88.0,
				"rdw":                  12.9,
				"alkaline_phosphatase": 62.0,
				"wbc":                  5.2,
				"chronological_age":    39.0,
			},
		},
	}
	return WriteFile(path, table)
}
