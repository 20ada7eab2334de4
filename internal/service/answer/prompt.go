package answer

import (
	"strings"

	"github.com/volleykb/assistant/backend/internal/model/kb"
)

// promptTemplate is the fixed anti-hallucination contract sent with every
// question. The directives are non-negotiable: the model must answer only
// from the supplied context, refuse with the canonical sentence when the
// context is insufficient, and mirror the question's language (Russian and
// English are both in the knowledge base). Whether the model actually
// honors these instructions is not validated anywhere downstream.
const promptTemplate = `You are a specialized AI decision assistant for volleyball athletes.
Your role is to provide accurate, evidence-based answers ONLY from the provided knowledge base.

CRITICAL RULES:
1. Answer ONLY based on the context provided below
2. If the context does not contain enough information to answer the question, say: "I don't have enough information in my knowledge base to answer this question accurately."
3. Do NOT make up information, statistics, or facts
4. Do NOT provide general knowledge that is not in the context
5. If asked about something not in the knowledge base, politely decline and suggest consulting the knowledge base
6. Support your answers with specific details from the context when available
7. You can answer in both Russian and English, matching the language of the question

Context from knowledge base:
{context}

Question: {question}

Answer (based ONLY on the context above):`

// buildPrompt substitutes the retrieved chunks and the raw question into
// the template. Chunk texts are joined with a blank-line separator.
func buildPrompt(chunks []kb.ScoredChunk, question string) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk.Text
	}
	contextText := strings.Join(texts, "\n\n")

	prompt := strings.Replace(promptTemplate, "{context}", contextText, 1)
	return strings.Replace(prompt, "{question}", question, 1)
}
