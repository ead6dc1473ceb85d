package classify

import "testing"

func TestDetectTopics(t *testing.T) {
	cfg := loadTestConfig(t)
	d := NewDetector(cfg)

	tests := []struct {
		query string
		want  Flags
	}{
		{
			query: "How did we do vs budget this year?",
			want:  Flags{BudgetComparison: true},
		},
		{
			query: "What is the gross margin for winter wheat?",
			want:  Flags{CropQuery: true},
		},
		{
			query: "How is CFG Ukraine's financial performance?",
			want:  Flags{FinancialPerformance: true},
		},
		{
			query: "What should we do next? Give me an action plan.",
			want:  Flags{ActionRequest: true},
		},
		{
			// Budget and action vocabulary at once: flags are independent.
			query: "Revenue beat budget - what should we do now?",
			want:  Flags{BudgetComparison: true, FinancialPerformance: false, ActionRequest: true},
		},
		{
			query: "hello there",
			want:  Flags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := d.Detect(tt.query); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Action vocabulary suppresses the financial-performance predicate so that
// prescriptive requests are not shadowed by a performance lookup.
func TestFinancialPerformanceExclusion(t *testing.T) {
	cfg := loadTestConfig(t)
	d := NewDetector(cfg)

	plain := d.Detect("What is our revenue this fiscal year?")
	if !plain.FinancialPerformance {
		t.Error("expected financial-performance flag for plain revenue query")
	}

	action := d.Detect("How can we improve revenue?")
	if action.FinancialPerformance {
		t.Error("financial-performance flag should yield to action vocabulary")
	}
	if !action.ActionRequest {
		t.Error("expected action-request flag")
	}
}
