package logcache

import (
	"context"

	"github.com/ngcli/ng/internal/nix"
)

// FetchCached returns drvPath's build log, serving it from cache when
// present and falling back to iface.FetchBuildLog otherwise. A
// successfully fetched log is written back to the cache before returning.
func FetchCached(ctx context.Context, c *Cache, iface *nix.Interface, drvPath string, verbosity int) (string, error) {
	if log, ok, err := c.Get(drvPath); err != nil {
		return "", err
	} else if ok {
		return log, nil
	}

	log, err := iface.FetchBuildLog(ctx, drvPath, verbosity)
	if err != nil {
		return "", err
	}

	_ = c.Put(drvPath, log) // a failed cache write shouldn't fail the fetch
	return log, nil
}
