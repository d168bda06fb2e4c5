package ai

import "fmt"

const systemInstruction = `
# [INSTRUCTION]

You summarise the visible text of a Saudi Arabia Railways (SAR) trip search result page for a traveller who is waiting for tickets to open.

The page has already been checked and is known to list at least one bookable trip.

---

# [CONTENT]

Report only what the page states:

- Train numbers with departure and arrival times.
- Trip duration and the number of stops, including overnight trips.
- Ticket classes offered and their prices, with the currency as written.
- Seats remaining or "few seats left" notices.

---

# [CRITICAL INSTRUCTION]

Return 3-5 short bullet points. Every bullet must be tied to a time, number, class or price taken from the page. Do not guess missing details, do not give booking advice, and do not repeat navigation or footer text.
`

const userPromptTemplate = `
Summarise the trips listed in the following page text:
--
%s
---
`

func buildUserPrompt(pageText string) string {
	return fmt.Sprintf(userPromptTemplate, truncateRunes(pageText, maxPageRunes))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
