// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package quality

import "regexp"

// PII detection patterns. Chunk text reaches the scorer after upstream
// redaction has run, so any match here is PII that slipped through.
var piiPatterns = []*regexp.Regexp{
	// email
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	// US social security number
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	// phone number, international or US formatting
	regexp.MustCompile(`(?:\+\d{1,3}[ -]?)?(?:\(\d{3}\)[ -]?|\d{3}[ -])\d{3}[ -]\d{4}\b`),
	// credit card number, 13-16 digits with optional separators
	regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{1,4}\b`),
	// IPv4 address
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
}

// reRedactionMarker matches the markers upstream redaction leaves behind.
var reRedactionMarker = regexp.MustCompile(`\[(?:REDACTED|EMAIL|PHONE|SSN|CARD|IP)\]|\*{3,}`)

// CountPII returns the number of PII pattern matches remaining in text.
func CountPII(text string) int {
	count := 0
	for _, re := range piiPatterns {
		count += len(re.FindAllStringIndex(text, -1))
	}
	return count
}

// CountRedactions returns the number of redaction markers in text.
func CountRedactions(text string) int {
	return len(reRedactionMarker.FindAllStringIndex(text, -1))
}

// redactionEffectiveness returns the fraction of detected PII occurrences
// that were successfully redacted, in [0,1]. Text with no PII and no
// redaction markers is fully effective.
func redactionEffectiveness(remaining, redacted int) float64 {
	total := remaining + redacted
	if total == 0 {
		return 1
	}
	return float64(redacted) / float64(total)
}
