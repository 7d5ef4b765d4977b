package csvparser

import (
	"encoding/csv"
	"strings"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
)

// =============================================================================
// DELIMITER DETECTION
// =============================================================================

// candidateDelimiters lists the supported delimiters in preference order.
// When two candidates are equally consistent the earlier one wins.
var candidateDelimiters = []rune{',', ';'}

// minConsistency is the share of records that must agree on the field count
// for a candidate to be accepted.
const minConsistency = 0.9

// DetectDelimiter inspects a CSV sample and decides whether its fields are
// comma- or semicolon-separated.
//
// DETECTION LOGIC:
//   For each candidate the sample is split into records (quote-aware) and the
//   most common field count is found. A candidate is consistent when that
//   count is greater than one and at least 90% of the records share it. The
//   most consistent candidate is returned.
//
// RETURNS:
//   - The detected delimiter.
//   - A Delimiter error when neither candidate is consistent.
func DetectDelimiter(sample string) (rune, error) {
	best := rune(0)
	bestScore := 0.0

	for _, candidate := range candidateDelimiters {
		score := consistency(sample, candidate)
		if score >= minConsistency && score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best == 0 {
		return 0, apperror.New(apperror.Delimiter,
			"could not detect the CSV delimiter; only ',' and ';' are supported, check the file format")
	}

	return best, nil
}

// consistency returns the share of records whose field count equals the
// modal field count, or 0 when the modal count is one or the sample cannot
// be split.
func consistency(sample string, delimiter rune) float64 {
	reader := csv.NewReader(strings.NewReader(sample))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return 0
	}

	counts := make(map[int]int)
	for _, record := range records {
		counts[len(record)]++
	}

	modalFields, modalCount := 0, 0
	for fields, count := range counts {
		if count > modalCount || (count == modalCount && fields > modalFields) {
			modalFields, modalCount = fields, count
		}
	}

	if modalFields < 2 {
		return 0
	}

	return float64(modalCount) / float64(len(records))
}
