package cli

import (
	"context"

	"github.com/krhatland/cloudnetdraw-go/pkg/azure"
	"github.com/krhatland/cloudnetdraw-go/pkg/cache"
)

// cacheFlags are the shared cache-backend flags for commands that talk to
// Azure.
type cacheFlags struct {
	noCache   bool   // bypass caching entirely
	cacheDir  string // file cache directory override
	redisAddr string // use Redis instead of the file cache
}

// backend selects the cache backend: Redis when an address is given, no
// caching with --no-cache, the file cache otherwise.
func (f *cacheFlags) backend(ctx context.Context) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redisAddr != "":
		return cache.NewRedisCache(ctx, f.redisAddr)
	default:
		return cache.NewFileCache(f.cacheDir)
	}
}

// newAzureClient wires credential, cache backend, and logger into an ARM
// client.
func newAzureClient(ctx context.Context, flags *cacheFlags, servicePrincipal bool) (*azure.Client, error) {
	backend, err := flags.backend(ctx)
	if err != nil {
		return nil, err
	}

	var cred azure.Credential
	if servicePrincipal {
		cred = azure.CredentialFromEnv()
	} else {
		cred = &azure.CLICredential{}
	}
	return azure.NewClient(cred, backend, loggerFromContext(ctx)), nil
}
