// Package prompts holds the instruction text sent to the reasoning service
// for each pipeline step.
package prompts

import "strings"

// LanguageDetection instructs the reasoning service to detect the language,
// translate to English, and extract structured travel entities. The reply
// must be a single JSON object.
const LanguageDetection = `Analyze the user's travel request.

1. Detect the language of the input (ISO code and full name).
2. Translate to English if not already English.
3. Identify the service type: flight, hotel, train, bus, or attractions.
4. Extract entities: origin, destination, date, guests, budget.
5. Decide completeness (flight/train/bus need origin, destination, date;
   hotel needs destination and date; attractions needs destination only).
   When incomplete, ask for ALL missing details in ONE question, written in
   the user's language.

Return ONLY a valid JSON object, no markdown formatting:
{"detected_language": "hi", "language_name": "Hindi",
 "english_translation": "...", "is_travel_related": true,
 "service_type": "flight",
 "entities": {"origin": null, "destination": null, "date": null, "guests": null, "budget": null},
 "is_complete": true, "missing_info": [], "followup_question": null}`

// Specialist instructs the reasoning service to turn web-search findings
// into a ranked result collection for one service type. {{service}} is the
// canonical service tag and {{key}} the JSON collection key to emit.
const Specialist = `You are a {{service}} search specialist. Using the search
findings below, produce the best matching options for the traveler.

Request entities: {{entities}}

Search findings:
{{findings}}

Return ONLY a valid JSON object of the form
{"{{key}}": [ ...up to 5 option objects with name/provider, timing, price... ],
 "search_query": "{{query}}"}
Prices stay in the currency found in the findings. No markdown.`

// FinalResponse instructs the reasoning service to compose the user-facing
// answer in the detected language.
const FinalResponse = `Compose a clear, friendly answer for the traveler in
{{language_name}} ({{language}}). Summarize the options below as a short
numbered list with prices and timings. Close by asking if they would like to
book one. Return plain text, NOT JSON.

Options: {{results}}`

// Followup instructs the reasoning service to answer a follow-up question
// against the reconstructed session context. Plain text out.
const Followup = `Answer the traveler's follow-up question using the session
context. Resolve references like "the second one", "the cheapest", or "the
last one" against the search results. If the user wants to book, acknowledge
it and list the passenger details you need. Answer in {{language_name}}
({{language}}), plain text, NOT JSON.

Follow-up: {{followup}}
Entities: {{entities}}
Search results: {{search_results}}
Recent conversation: {{history}}`

// IncompleteFallback is the follow-up question used when the reasoning
// service flags an incomplete request without providing its own question.
const IncompleteFallback = "Please provide more details (origin, destination, date, number of travelers) so I can search for you."

// Fill replaces {{key}} placeholders in a prompt template.
func Fill(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
