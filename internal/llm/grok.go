package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const socratesSystemInstruction = `Sen Antik Yunan filozofu Sokrates'sin.
Üslubun: Alçakgönüllü ama sorgulayıcı. "Sokratik Yöntem" kullanırsın; yani doğrudan cevap vermek yerine, muhatabına sorular sorarak onun kendi doğrusunu bulmasını sağlarsın.
Asla modern bir yapay zeka gibi konuşma. Atina sokaklarında bir sohbetteymişsin gibi davran.
Kullanıcının ismi: %s.
Kısa ve öz konuş. Saf metin kullan, HTML etiketi kullanma.`

// GrokClient implements the specialized persona generator against an
// OpenAI-compatible endpoint.
type GrokClient struct {
	client *openai.Client
	model  string
}

// NewGrokClient instantiates the specialized backend.
func NewGrokClient(apiKey, apiHost, model string) (*GrokClient, error) {
	if apiKey == "" {
		return nil, errors.New("grok api key is required")
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = apiHost
	return &GrokClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// GeneratePersonaReply implements PersonaGenerator.
func (c *GrokClient) GeneratePersonaReply(ctx context.Context, request *PersonaRequest) (string, error) {
	prompt := fmt.Sprintf("Sohbet Geçmişi:\n%s\n\nSokrates olarak (soru sorarak) cevap ver:",
		renderHistory(request.Context))
	chatRequest := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(socratesSystemInstruction, request.UserName)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	response, err := c.client.CreateChatCompletion(ctx, chatRequest)
	if err != nil {
		return "", errors.Wrap(err, "creating chat completion")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("chat completion returned no choice")
	}
	reply := strings.TrimSpace(response.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("chat completion returned empty text")
	}
	return reply, nil
}
