package assistant

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

const chatSystemPrompt = "Você é o assistente financeiro do CONFIA, um app de gestão " +
	"para pequenos negócios brasileiros.\n" +
	"Responda em português, de forma curta e prática, usando apenas os dados " +
	"do negócio fornecidos abaixo. Se a pergunta não puder ser respondida com " +
	"esses dados, diga isso claramente em vez de inventar números.\n"

// Chat answers a finance question grounded in the business snapshot in
// contextText. It never returns an error: any failure yields the fixed
// fallback reply so the conversation can continue.
func (c *Client) Chat(ctx context.Context, message, contextText string) string {
	var prompt strings.Builder
	prompt.WriteString(chatSystemPrompt)
	prompt.WriteString("\nDados do negócio:\n")
	prompt.WriteString(contextText)
	prompt.WriteString("\n\nPergunta: ")
	prompt.WriteString(message)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt.String()},
			},
		},
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("assistant chat call failed")
		return FallbackReply
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		c.log.Warn().Msg("assistant chat returned empty response")
		return FallbackReply
	}
	return reply
}
