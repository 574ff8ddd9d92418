// Package config loads application configuration from the environment.
//
// Settings come from environment variables, optionally seeded from a .env
// file in the working directory. Every value has a sensible default except
// the API credentials, which must be provided by the operator:
//
//   - OPENAI_API_KEY: required for all language model, transcription and
//     speech features
//   - GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET: required for Calendar and
//     Gmail access
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ValidateLLM(); err != nil {
//	    return err
//	}
package config
