package secrets

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

type SecretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

func NewVaultClientWith(client SecretGetter, cfg *VaultConfig, logger *zap.Logger) *VaultClient {
	return newVaultClient(client, cfg, logger)
}

var ResolveSource = resolveSource
