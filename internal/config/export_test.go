package config

import "context"

type SecretSource = secretSource

func ApplySecrets(ctx context.Context, cfg *Config, src SecretSource) error {
	return applySecrets(ctx, cfg, src)
}
