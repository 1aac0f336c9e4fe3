package openai

const enhancementResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "enhanced_text": {
      "type": "string"
    },
    "changes": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "required": ["enhanced_text", "changes"],
  "additionalProperties": false
}`

const enhancementPromptTemplate = `You improve a single passage of text so it reads cleanly and retrieves well
from a knowledge base. Return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Fix OCR artifacts, broken words, garbled characters, and spacing errors.
- Correct obvious spelling and grammar mistakes.
- Preserve the meaning, terminology, numbers, names, and factual content exactly.
- Do not summarize, expand, reorder, or drop content.
- "changes" is a list of short labels for what you fixed, e.g. "spelling", "spacing", "ocr_artifacts".
- If the passage needs no changes, return it verbatim with "changes": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Teh  system proccesses documents efficiently."
Output:
{
  "enhanced_text": "The system processes documents efficiently.",
  "changes": ["spelling", "spacing"]
}`
