package genai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// Client generates ENEM-style multiple-choice questions with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds the generator client. The API key is required; the model
// defaults to gemini-2.5-flash.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Disabled is the generator used when no API key is configured. Every call
// fails with ErrGenerationFailed, which aborts the exam-start attempt.
type Disabled struct{}

// GenerateQuestions always fails.
func (Disabled) GenerateQuestions(context.Context, models.GenerationParams) ([]models.Question, error) {
	return nil, fmt.Errorf("%w: question generator not configured", apperrors.ErrGenerationFailed)
}

// questionSchema constrains the model output to the question JSON shape.
func questionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":   {Type: genai.TypeInteger},
				"text": {Type: genai.TypeString, Description: "Texto base mais o enunciado da pergunta."},
				"options": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Lista de 5 alternativas de resposta.",
				},
				"correctIndex": {Type: genai.TypeInteger, Description: "O índice (0-4) da alternativa correta."},
				"explanation":  {Type: genai.TypeString, Description: "Breve explicação da resposta correta."},
			},
			Required: []string{"id", "text", "options", "correctIndex", "explanation"},
		},
	}
}

// GenerateQuestions asks the model for 5 multiple-choice questions for the
// given subject, bimester and difficulty. Any failure is wrapped as
// ErrGenerationFailed and aborts the exam-start attempt; there is no retry.
func (c *Client) GenerateQuestions(ctx context.Context, params models.GenerationParams) ([]models.Question, error) {
	contentFocus := fmt.Sprintf("Aborde o currículo padrão do %q.", params.Bimester)
	if params.Topics != "" {
		contentFocus = fmt.Sprintf("Foque EXCLUSIVAMENTE nestes tópicos definidos pelo professor: %q.", params.Topics)
	}

	prompt := fmt.Sprintf(`Atue como um elaborador sênior de questões do INEP (ENEM).
Gere 5 questões de múltipla escolha sobre: %q.
%s
Nível: %s.

Estilo das questões (Modelo ENEM/TRI):
1. Cada questão DEVE ter um Texto Base (citação, notícia, gráfico descrito ou trecho de livro).
2. O enunciado deve exigir interpretação do texto base e conhecimento do conteúdo.
3. Forneça 5 alternativas (A, B, C, D, E).
4. Indique o índice da resposta correta (0 a 4).

Retorne APENAS o JSON.`, params.Subject, contentFocus, params.Difficulty)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    questionSchema(),
		SystemInstruction: genai.NewContentFromText("Você é um banco de questões dinâmico do ENEM. Gere questões inéditas a cada chamada.", genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty model response", apperrors.ErrGenerationFailed)
	}

	var questions []models.Question
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, fmt.Errorf("%w: malformed model output: %v", apperrors.ErrGenerationFailed, err)
	}

	logger.Debug().Int("count", len(questions)).Str("subject", string(params.Subject)).Msg("Questions generated")
	return questions, nil
}
