package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestClassifyRollover(t *testing.T) {
	tests := []struct {
		name     string
		qualify  *int
		note     string
		expected RolloverStatus
	}{
		{
			name:     "missing qualify flag is ineligible",
			qualify:  nil,
			note:     "Rollover",
			expected: RolloverIneligible,
		},
		{
			name:     "not qualified without rollover note is ineligible",
			qualify:  intPtr(0),
			note:     "Other",
			expected: RolloverIneligible,
		},
		{
			name:     "not qualified with empty note is ineligible",
			qualify:  intPtr(0),
			note:     "",
			expected: RolloverIneligible,
		},
		{
			name:     "not qualified with rollover note is processing",
			qualify:  intPtr(0),
			note:     "Rollover",
			expected: RolloverProcessing,
		},
		{
			name:     "rollover note comparison ignores case",
			qualify:  intPtr(0),
			note:     "rOLLOVER",
			expected: RolloverProcessing,
		},
		{
			name:     "qualified regardless of note",
			qualify:  intPtr(1),
			note:     "Other",
			expected: RolloverQualified,
		},
		{
			name:     "qualified with rollover note",
			qualify:  intPtr(1),
			note:     "Rollover",
			expected: RolloverQualified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &RolloverRecord{
				Account:    1001,
				LoanSuffix: intPtr(3),
				Qualify:    tt.qualify,
				Note:       tt.note,
			}

			assert.Equal(t, tt.expected, ClassifyRollover(record))
		})
	}
}

func TestRolloverStatusString(t *testing.T) {
	assert.Equal(t, "ineligible", RolloverIneligible.String())
	assert.Equal(t, "processing", RolloverProcessing.String())
	assert.Equal(t, "qualified", RolloverQualified.String())
}

func TestLoanInquiryResolved(t *testing.T) {
	assert.False(t, (&LoanInquiry{NewInserted: "Y"}).Resolved())
	assert.False(t, (&LoanInquiry{NewInserted: "y"}).Resolved())
	assert.True(t, (&LoanInquiry{NewInserted: "N"}).Resolved())
}
