package generation

import (
	"fmt"
	"strings"
)

func answerPrompt(language, context, memory, question string) string {
	return fmt.Sprintf(`You are a helpful AI assistant specialized in answering questions based on provided documents and conversation history.

Respond in %s only.

Base approximately 80%% of your answer on the context information below and up to 20%% on your general knowledge where it improves clarity. If the context does not contain the answer, say so.

Format the response as HTML inside <article> tags. Use <h2> and <h3> for headings, <p> for paragraphs, <ul> and <li> for lists, <strong> and <em> for emphasis, <blockquote> for quotations and <div class="highlight"> for key takeaways.

CONTEXT INFORMATION:
%s

CONVERSATION HISTORY:
%s

USER QUESTION: %s

RESPONSE:`, language, context, memory, question)
}

func summaryPrompt(language, context string) string {
	return fmt.Sprintf(`You are an expert summarizer. Write a concise summary of the document content below.

Respond in %s only.

Requirements:
- 2-3 paragraphs maximum
- Plain text only, no HTML and no markdown
- Cover the main topics and conclusions of the document

DOCUMENT CONTENT:
%s

SUMMARY:`, language, context)
}

func questionsPrompt(language, context string) string {
	return fmt.Sprintf(`Generate 5-8 thoughtful questions that can be answered from the document content below.

Respond in %s only.

Requirements:
- Output a valid JSON array of strings and nothing else
- Example: ["What is the main topic?", "How does the process work?"]

DOCUMENT CONTENT:
%s

QUESTIONS:`, language, context)
}

func partSummaryPrompt(language, context string, part, total int) string {
	return fmt.Sprintf(`Context from part %d of %d of the document:
%s

Write a comprehensive summary of this section in %s. Plain text only.

SUMMARY:`, part, total, context, language)
}

func partQuestionsPrompt(language, context string, part, total int) string {
	return fmt.Sprintf(`Context from part %d of %d of the document:
%s

Generate 3-5 relevant questions answerable from this section, in %s. Output a valid JSON array of strings and nothing else.

QUESTIONS:`, part, total, context, language)
}

func reduceSummaryPrompt(language, partials string) string {
	return fmt.Sprintf(`The following are summaries of consecutive sections of one document:

%s

Combine them into a single coherent summary in %s.

Requirements:
- 2-3 paragraphs maximum
- Plain text only, no HTML and no markdown

SUMMARY:`, partials, language)
}

func multiDocPrompt(language string, labels []string, context, memory, question string) string {
	return fmt.Sprintf(`You are a helpful AI assistant answering a question using several documents at once: %s.

Respond in %s only.

Synthesize information across the documents. Indicate which document supports each point, and acknowledge explicitly when the documents conflict.

Format the response as HTML inside <article> tags. Use <h2> and <h3> for headings, <p> for paragraphs, <ul> and <li> for lists, <strong> and <em> for emphasis, <blockquote> for quotations and <div class="highlight"> for key takeaways.

CONTEXT INFORMATION:
%s

CONVERSATION HISTORY:
%s

USER QUESTION: %s

RESPONSE:`, strings.Join(labels, ", "), language, context, memory, question)
}
