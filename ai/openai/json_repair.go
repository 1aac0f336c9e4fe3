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


package openai

import "strings"

// repairJSON patches the one JSON malformation small local models produce
// often enough to matter: an object key missing its opening quote, as in
// `, changes":`. The repair only fires when the closing quote and colon
// are already in place; anything else passes through untouched.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)

	i := 0
	for i < len(in) {
		r := in[i]
		out = append(out, r)
		i++
		if r != '{' && r != ',' {
			continue
		}

		// Keys follow an opener or separator, possibly after whitespace.
		for i < len(in) && (in[i] == ' ' || in[i] == '\t' || in[i] == '\n') {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !isASCIILetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isASCIILetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			key := strings.TrimRight(string(in[start:i]), " ")
			out = append(out, '"')
			out = append(out, []rune(key)...)
			continue
		}

		// Not a bare key after all; emit what was scanned unchanged.
		out = append(out, in[start:i]...)
	}

	return string(out)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
