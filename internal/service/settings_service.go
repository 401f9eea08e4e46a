package service

import (
	"errors"
	"strings"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

// keyMaskPrefix is what API keys are rendered as in responses. A masked value
// echoed back on update means "keep the stored key".
const keyMaskPrefix = "••••••••"

// SettingsService manages per-role LLM configuration. Stored API keys are
// never returned in full.
type SettingsService interface {
	ListConfigs() ([]dto.LLMConfigDTO, error)
	GetConfig(role string) (*dto.LLMConfigDTO, error)
	UpdateConfig(role string, req dto.UpdateLLMConfigRequest) (*dto.LLMConfigDTO, error)
}

type settingsService struct {
	configRepo repository.LLMConfigRepository
}

func NewSettingsService(configRepo repository.LLMConfigRepository) SettingsService {
	return &settingsService{configRepo: configRepo}
}

func (s *settingsService) ListConfigs() ([]dto.LLMConfigDTO, error) {
	configs, err := s.configRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LLMConfigDTO, 0, len(configs))
	for i := range configs {
		out = append(out, configToDTO(&configs[i]))
	}
	return out, nil
}

func (s *settingsService) GetConfig(role string) (*dto.LLMConfigDTO, error) {
	cfg, err := s.configRepo.FindByRole(role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("unknown LLM role %q", role)
		}
		return nil, err
	}
	out := configToDTO(cfg)
	return &out, nil
}

// UpdateConfig overwrites the role's configuration. An empty or masked APIKey
// keeps the stored key; anything else replaces it.
func (s *settingsService) UpdateConfig(role string, req dto.UpdateLLMConfigRequest) (*dto.LLMConfigDTO, error) {
	cfg, err := s.configRepo.FindByRole(role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("unknown LLM role %q", role)
		}
		return nil, err
	}

	cfg.Provider = req.Provider
	cfg.Model = req.Model
	cfg.SystemPrompt = req.SystemPrompt
	if req.MaxTokens > 0 {
		cfg.MaxTokens = req.MaxTokens
	}
	if req.Temperature >= 0 && req.Temperature <= 2 {
		cfg.Temperature = req.Temperature
	}
	if req.APIKey != "" && !strings.HasPrefix(req.APIKey, keyMaskPrefix) {
		cfg.APIKey = req.APIKey
	}

	if err := s.configRepo.Update(cfg); err != nil {
		return nil, err
	}
	out := configToDTO(cfg)
	return &out, nil
}

func configToDTO(cfg *model.LLMConfig) dto.LLMConfigDTO {
	out := dto.LLMConfigDTO{
		ID:           cfg.ID,
		Role:         cfg.Role,
		Provider:     cfg.Provider,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		UpdatedAt:    cfg.UpdatedAt,
	}
	out.APIKey = maskKey(cfg.APIKey)
	return out
}

// maskKey hides all but the last 4 characters. nil means no key stored.
func maskKey(key string) *string {
	if key == "" {
		return nil
	}
	masked := keyMaskPrefix
	if len(key) > 4 {
		masked += key[len(key)-4:]
	}
	return &masked
}
