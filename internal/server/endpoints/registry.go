package endpoints

import "github.com/jackzampolin/aisdk/internal/api"

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health and metrics
		&HealthEndpoint{},
		&MetricsEndpoint{},

		// Prompts
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&RenderEndpoint{},

		// Generation
		&GenerateEndpoint{},
		&ListModelsEndpoint{},

		// LLM call history
		&ListLLMCallsEndpoint{},
		&LLMCallCountsEndpoint{},
		&GetLLMCallEndpoint{},

		// Settings
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
	}
}
