package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkellogg/advancepay-service/internal/domain"
)

func TestFormatLOCH(t *testing.T) {
	formatted := FormatLOCH("Advance of {LoanAmount} to {AccountNumber} suffix {DepositSuffix}", 1001, 40000, "1")
	assert.Equal(t, "Advance of 40000 to 1001 suffix 1", formatted)
}

func TestFormatLOMD(t *testing.T) {
	formatted := FormatLOMD("{AccountNumber}/{DepositSuffix}: {LoanAmount}", 1001, 40000, "2")
	assert.Equal(t, "1001/2: 40000", formatted)
}

func TestFormatMMCH(t *testing.T) {
	applicant := domain.LoanApplicant{FirstName: "Pat", LastName: "Morgan"}
	formatted := FormatMMCH("Update for {ApplicantName} on {AccountNumber}", 1001, applicant)
	assert.Equal(t, "Update for Pat Morgan on 1001", formatted)
}

func TestFormatLOFE(t *testing.T) {
	formatted := FormatLOFE("Fee on {AccountNumber} for {LoanAmount}", 1001, 40000)
	assert.Equal(t, "Fee on 1001 for 40000", formatted)
}

func TestFormatLeavesUnknownTokensAlone(t *testing.T) {
	formatted := FormatLOFE("{Unknown} {LoanAmount}", 1001, 40000)
	assert.Equal(t, "{Unknown} 40000", formatted)
}
