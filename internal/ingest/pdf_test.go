package ingest

import (
	"testing"
)

func TestExpandPages(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		total int
		want  []int
	}{
		{"empty", "", 10, nil},
		{"single", "3", 10, []int{3}},
		{"range", "1-3", 10, []int{1, 2, 3}},
		{"range and single", "1-3,7", 10, []int{1, 2, 3, 7}},
		{"reversed range", "5-2", 10, []int{2, 3, 4, 5}},
		{"duplicates collapse", "2,2,1-3", 10, []int{2, 1, 3}},
		{"out of bounds dropped", "0,9-12", 10, []int{9, 10}},
		{"garbage dropped", "abc,4", 10, []int{4}},
		{"whitespace tolerated", " 1 , 2 - 3 ", 10, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPages(tt.spec, tt.total)
			if len(got) != len(tt.want) {
				t.Fatalf("expandPages(%q) = %v, want %v", tt.spec, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expandPages(%q) = %v, want %v", tt.spec, got, tt.want)
				}
			}
		})
	}
}

func TestExtractPDF_MissingFile(t *testing.T) {
	if _, err := ExtractPDF("/does/not/exist.pdf", PDFOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
