package cmd

import (
	"context"
	"fmt"

	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/lane"
	"github.com/cinelane/cinelane/locator"
	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/player"
	"github.com/cinelane/cinelane/resolver"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/subtitle"
	"github.com/cinelane/cinelane/surface"
	"github.com/cinelane/cinelane/where"
	"github.com/spf13/viper"
)

// resolution is the locator cache and session manager shared by play and resolve.
type resolution struct {
	cache    *locator.Cache
	sessions *session.Manager
	closer   resolver.Closer
}

func openCache() (*locator.Cache, error) {
	cache := locator.New(locator.OptionsFromConfig(where.Locators()))
	n, err := cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading locator cache: %w", err)
	}

	log.Debugf("loaded %d cached locators", n)
	return cache, nil
}

func openResolution(ctx context.Context) (*resolution, error) {
	cache, err := openCache()
	if err != nil {
		return nil, err
	}

	go func() {
		if n := cache.Prune(); n > 0 {
			log.Debugf("pruned %d expired locators", n)
		}
	}()

	r, closer, err := resolver.Open(ctx, viper.GetString(key.ResolverDefault))
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(cache, r, session.FallbacksFromConfig())
	go traceUpdates(ctx, sessions.Updates(8))

	return &resolution{
		cache:    cache,
		sessions: sessions,
		closer:   closer,
	}, nil
}

// traceUpdates logs session transitions until ctx is done.
func traceUpdates(ctx context.Context, updates <-chan session.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			if err := u.Err; err != nil {
				log.Debugf("session %d %q %s: %s", u.Token, u.Key, u.State, err)
				continue
			}
			log.Debugf("session %d %q %s", u.Token, u.Key, u.State)
		}
	}
}

// Close stops the running session, persists the cache and releases the resolver.
func (r *resolution) Close() {
	r.sessions.Stop()
	r.closer()

	if err := r.cache.Save(); err != nil {
		log.Warnf("saving locator cache: %s", err)
	}
}

type stackOptions struct {
	subs   string
	sample bool
	mirror bool
	lanes  int
}

// stack is everything the terminal surface needs.
type stack struct {
	*resolution
	player  player.Player
	surface *surface.Surface
}

func openStack(ctx context.Context, options stackOptions) (*stack, error) {
	res, err := openResolution(ctx)
	if err != nil {
		return nil, err
	}

	p, err := player.New(viper.GetString(key.Player))
	if err != nil {
		res.Close()
		return nil, err
	}

	laneOptions := lane.OptionsFromConfig()
	if options.lanes > 0 {
		laneOptions.Count = options.lanes
	}

	subs := subtitle.New()
	switch {
	case options.subs != "":
		n, err := subs.LoadFile(options.subs)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("loading subtitles: %w", err)
		}
		log.Infof("loaded %d cues from %s", n, options.subs)
	case options.sample:
		subs.Load(subtitle.Sample())
	}
	subs.SetEnabled(viper.GetBool(key.SubtitleEnabled))

	surfaceOptions := surface.OptionsFromConfig()
	surfaceOptions.MirrorSubtitles = options.mirror

	return &stack{
		resolution: res,
		player:     p,
		surface:    surface.New(lane.New(laneOptions), subs, res.sessions, p, surfaceOptions),
	}, nil
}

// Close shuts the player down before the resolution side.
func (s *stack) Close() {
	if err := s.player.Close(); err != nil {
		log.Warnf("closing player: %s", err)
	}
	s.resolution.Close()
}
