package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/soltixdb/trendlens/internal/config"
)

// modelAliases maps the short names users type to GitHub Models ids
var modelAliases = map[string]string{
	"gpt-4o":              "gpt-4o",
	"gpt-4o-mini":         "gpt-4o-mini",
	"claude-3.5-sonnet":   "claude-3.5-sonnet",
	"claude-3-5-sonnet":   "claude-3.5-sonnet",
	"meta-llama-3.1-405b": "meta-llama-3.1-405b-instruct",
	"llama-3.1-405b":      "meta-llama-3.1-405b-instruct",
	"phi-3.5":             "phi-3.5-mini-instruct",
	"phi-3.5-mini":        "phi-3.5-mini-instruct",
}

// ResolveModel maps an alias to its model id; unknown names pass through
func ResolveModel(name string) string {
	if id, ok := modelAliases[name]; ok {
		return id
	}
	return name
}

// ModelAlias is one entry of the alias table
type ModelAlias struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ModelAliases lists the alias table sorted by name
func ModelAliases() []ModelAlias {
	out := make([]ModelAlias, 0, len(modelAliases))
	for name, id := range modelAliases {
		out = append(out, ModelAlias{Name: name, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GitHubModels talks to the OpenAI compatible GitHub Models endpoint
type GitHubModels struct {
	token    string
	endpoint string
	model    string
	settings Settings
	http     httpClient
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewGitHubModels returns ErrMissingCredential without a token
func NewGitHubModels(cfg config.GitHubConfig, settings Settings) (*GitHubModels, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: set providers.github.token or GITHUB_TOKEN", ErrMissingCredential)
	}
	return &GitHubModels{
		token:    cfg.Token,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    ResolveModel(cfg.Model),
		settings: settings,
		http:     newHTTPClient(cfg.Timeout, cfg.RateLimit, cfg.Burst),
	}, nil
}

func (g *GitHubModels) Provider() string { return ProviderGitHub }

func (g *GitHubModels) Model() string { return g.model }

// Predict posts one user message to /chat/completions
func (g *GitHubModels) Predict(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	temp, tokens := g.settings.resolve(opts)
	payload := chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Model:       g.model,
		Temperature: temp,
		MaxTokens:   tokens,
	}

	status, body, err := g.http.post(ctx, g.endpoint+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + g.token,
	}, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("GitHub Models API request failed with status %d for model %q: %s",
			status, g.model, apiErrorMessage(body))
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return resp.Choices[0].Message.Content, nil
}
