package relevance

import (
	"errors"
	"fmt"
)

// Scorer defaults. Normalization of 100 means a lone weight-50 keyword
// scores exactly 50.
const (
	DefaultTitleMultiplier = 2.0
	DefaultNormalization   = 100.0
)

var errBlankPattern = errors.New("blank keyword pattern")

func errNonPositiveWeight(pattern string, weight float64) error {
	return fmt.Errorf("keyword %q has non-positive weight %g", pattern, weight)
}

// DefaultKeywordWeights is the stock keyword table covering ad fraud,
// scam-ad, and political-advertising coverage. Weight tiers: 30 for core
// terms, 25 for specific scam types, 20 for important broader terms,
// 15 for supporting political-advertising terms, 10 for general terms.
func DefaultKeywordWeights() map[string]float64 {
	return map[string]float64{
		// Core ad fraud terms
		"malvertising":           30,
		"ad fraud":               30,
		"scam ads":               30,
		"fake ads":               30,
		"fraudulent advertising": 30,
		"deepfake ads":           30,
		"AI-generated scam ads":  30,

		// Specific scam types
		"celebrity scam ads":          25,
		"crypto scam ads":             25,
		"financial scam ads":          25,
		"investment scam ads":         25,
		"fake celebrity endorsements": 25,
		"phishing ads":                25,

		// Important broader terms
		"deceptive ads":             20,
		"misleading ads":            20,
		"ad scams":                  20,
		"gambling ads":              20,
		"betting ads":               20,
		"romance scam ads":          20,
		"lottery scam ads":          20,
		"tech support scam ads":     20,
		"impersonation ads":         20,
		"synthetic media ads":       20,
		"manipulated media ads":     20,
		"counterfeit ads":           20,
		"political ad regulations":  20,
		"political ad compliance":   20,
		"political ad transparency": 20,

		// Supporting political-advertising terms
		"political advertising":       15,
		"election advertising rules":  15,
		"political ad disclosure":     15,
		"campaign finance ads":        15,
		"political ad verification":   15,
		"political ad labeling":       15,
		"sponsored political content": 15,
		"issue advocacy ads":          15,
		"political ad restrictions":   15,

		// General terms
		"social engineering": 10,
	}
}
