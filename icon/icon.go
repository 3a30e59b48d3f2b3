// Package icon renders UI symbols in the variant chosen by icons.variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/cinelane/cinelane/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported icons.variant value.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Lua Icon = iota
	Fail
	Success
	Progress
	Search
	Link
	Lane
	Subtitle
	Comment
	Cache
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Lua:      {emoji: "🌙", nerd: "\ue620", plain: "Lua", kaomoji: "(=^･ω･^=)", squares: "◧"},
	Fail:     {emoji: "💀", nerd: "\uf00d", plain: "X", kaomoji: "(×_×)", squares: "▨"},
	Success:  {emoji: "🎉", nerd: "\uf00c", plain: "OK", kaomoji: "(ᵔᴥᵔ)", squares: "▣"},
	Progress: {emoji: "👾", nerd: "\uf110", plain: "...", kaomoji: "(•_•)", squares: "▤"},
	Search:   {emoji: "🔍", nerd: "\uf002", plain: "?", kaomoji: "(・・ )?", squares: "◫"},
	Link:     {emoji: "🔗", nerd: "\uf0c1", plain: "->", kaomoji: "(¬‿¬)", squares: "◨"},
	Lane:     {emoji: "💬", nerd: "\uf27a", plain: ">", kaomoji: "(っ˘ω˘ς)", squares: "▥"},
	Subtitle: {emoji: "📜", nerd: "\uf20a", plain: "CC", kaomoji: "(o^▽^o)", squares: "▦"},
	Comment:  {emoji: "✏️", nerd: "\uf040", plain: "#", kaomoji: "φ(..)", squares: "▧"},
	Cache:    {emoji: "📦", nerd: "\uf1c0", plain: "$", kaomoji: "(⌐■_■)", squares: "▩"},
}

// Get returns the representation of the receiver for the configured variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered icon i.
func Get(i Icon) string {
	if def, ok := icons[i]; ok {
		return def.Get()
	}
	return ""
}
