// Package version discovers newer releases and compares semantic versions.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/network"
	"github.com/cinelane/cinelane/where"
	"github.com/metafates/gache"
)

// Endpoint is queried by Latest. Tests point it at a local server.
var Endpoint = constant.Releases

var cacher *gache.Cache[string]

func latestCache() *gache.Cache[string] {
	if cacher == nil {
		cacher = gache.New[string](&gache.Options{
			Path:       filepath.Join(where.Cache(), "version.json"),
			Lifetime:   48 * time.Hour,
			FileSystem: &filesystem.GacheFs{},
		})
	}
	return cacher
}

// Latest returns the most recent release version without the "v" prefix. The answer is
// cached for two days to stay under the API rate limit.
func Latest(ctx context.Context) (string, error) {
	if cached, expired, err := latestCache().Get(); err == nil && !expired && cached != "" {
		return cached, nil
	}

	body, err := network.Fetch(ctx, Endpoint)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	_ = latestCache().Set(latest)
	return latest, nil
}

// Newer reports the latest release when it is ahead of the running version.
func Newer(ctx context.Context) (string, bool, error) {
	latest, err := Latest(ctx)
	if err != nil {
		return "", false, err
	}

	comp, err := Compare(latest, constant.Version)
	if err != nil {
		return "", false, err
	}
	return latest, comp > 0, nil
}
