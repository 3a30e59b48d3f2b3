// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
	})
}

// TypeName returns the string representation of the field's underlying value type.
func (f *Field) TypeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Parse converts a raw command-line value into the field's type.
func (f *Field) Parse(raw string) (any, error) {
	switch f.Value.(type) {
	case string:
		return raw, nil
	case int:
		return strconv.Atoi(raw)
	case bool:
		return strconv.ParseBool(raw)
	case time.Duration:
		return time.ParseDuration(raw)
	case []string:
		return lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported type for key %s", f.Key)
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.LanesCount, 6, "Number of horizontal lanes live comments may occupy")
	register(key.LanesClearance, time.Second, "Time after a comment finished crossing before its lane may be reclaimed")
	register(key.LanesGrace, 500*time.Millisecond, "Grace window between a comment finishing and its lane becoming available")
	register(key.LanesCrossing, 8*time.Second, "Default time a comment takes to cross the surface")
	register(key.CacheCapacity, 100, "Maximum number of resolved locators kept in the cache")
	register(key.CacheTTL, time.Hour, "Lifetime of a cached locator")
	register(key.CachePersist, true, "Persist the locator cache between runs")
	register(key.SubtitlePoll, 500*time.Millisecond, "Playback clock polling interval used to resolve subtitle cues")
	register(key.SubtitleEnabled, true, "Show subtitles when a track is loaded")
	register(key.ResolverDefault, "catalog", "Resolver used to turn titles into locators.\nEither \"catalog\" or the name of a Lua resolver script")
	register(key.ResolverFallbacks, []string{"movie", "cinema", "film", "trailer"}, "Queries tried in order when the exact title resolves to nothing")
	register(key.ResolverCatalog, "", "Path or http(s) URL of the catalog used by the catalog resolver")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when prompting for a title")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain")
	register(key.Player, "mpv", "Media player used as the playback clock")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Check for a newer release when printing the version or help")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
