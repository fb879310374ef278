package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

const groupSystemInstruction = `Sen "WORKIGOM CHAT" platformunda bir grup sohbeti yöneticisisin.
Oda Konusu: "%s"

Aktif Karakterler (Botlar):
%s

ÖNEMLİ KURALLAR:
1. Botlar CANLI, etkileşimli ve kişiliklerine uygun konuşmalıdır.
2. Cevaplar KESİNLİKLE saf metin olmalı, HTML etiketi içermemelidir.
3. Kullanıcıya "%s" ismiyle hitap edebilirsin.
4. En fazla %d botun cevabını üret.

ÇIKTI FORMATI:
Sadece JSON dizisi döndür.`

// GeminiClient implements the general group generator on the Gemini API,
// constrained to a strict JSON response schema.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient instantiates the general backend.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateGroupReplies implements GroupGenerator. Items referencing bots
// outside the request roster are filtered out here; the caller revalidates
// against the room's participant set.
func (c *GeminiClient) GenerateGroupReplies(ctx context.Context, request *GroupRequest) ([]types.BotResponseItem, error) {
	descriptions := make([]string, 0, len(request.Bots))
	for _, bot := range request.Bots {
		descriptions = append(descriptions, fmt.Sprintf("- %s (ID: %s): %s", bot.Name, bot.ID, bot.Role))
	}
	system := fmt.Sprintf(groupSystemInstruction,
		request.Topic, strings.Join(descriptions, "\n"), request.UserName, MaxGroupReplies)

	prompt := fmt.Sprintf("Sohbet Geçmişi:\n%s\n\nLütfen uygun botların cevaplarını JSON olarak üret.",
		renderHistory(request.Context))
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(request.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(request.Image, "image/jpeg"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.8),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"botId":   {Type: genai.TypeString},
					"message": {Type: genai.TypeString},
				},
				Required: []string{"botId", "message"},
			},
		},
	}

	response, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, errors.Wrap(err, "generating group replies")
	}

	items, err := decodeBotResponses(response.Text())
	if err != nil {
		return nil, err
	}

	roster := map[string]struct{}{}
	for _, bot := range request.Bots {
		roster[bot.ID] = struct{}{}
	}
	accepted := make([]types.BotResponseItem, 0, len(items))
	for _, item := range items {
		if _, ok := roster[item.BotID]; ok {
			accepted = append(accepted, item)
		}
	}
	return accepted, nil
}

// decodeBotResponses parses the backend's JSON array, tolerating markdown
// code fences around it.
func decodeBotResponses(text string) ([]types.BotResponseItem, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, nil
	}
	var items []types.BotResponseItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, errors.Wrap(err, "unmarshaling bot responses")
	}
	return items, nil
}
